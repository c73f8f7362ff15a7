package main

import "github.com/frahmantamala/pos-backoffice/cmd"

func main() {
	cmd.Execute()
}
