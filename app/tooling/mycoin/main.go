// This program provides a command line client for a mycoin node.
package main

import "github.com/ardanlabs/mycoin/app/tooling/mycoin/cmd"

func main() {
	cmd.Execute()
}
