// Command banca tracks private lessons, their duration and what each student owes.
package main

import "github.com/banca-dev/banca/internal/cli"

func main() {
	cli.Execute()
}
