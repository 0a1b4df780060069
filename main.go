package main

import "github.com/LegacyCodeHQ/projectimport/cmd"

func main() {
	cmd.Execute()
}
