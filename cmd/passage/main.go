// passage — markup-preserving translation proxy.
package main

import "github.com/obryan/passage/internal/cli"

func main() {
	cli.Execute()
}
