// Command certgen writes a local CA and a server certificate for the dev
// server into a directory. Point blogctl at the CA with -ca.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/atinyakov/blogmanager/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server names")
	flag.Parse()

	f, err := certgen.EnsureDir(*dir, splitHosts(*hosts))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("CA:          %s\nServer cert: %s\nServer key:  %s\n", f.CACert, f.ServerCert, f.ServerKey)
}

func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
