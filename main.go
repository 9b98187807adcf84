package main

import "github.com/campushr/claims-management/cmd"

func main() {
	cmd.Execute()
}
