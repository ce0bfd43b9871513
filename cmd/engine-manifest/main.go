package main

import "github.com/oshokin/engine-manifest/cmd/engine-manifest/cmd"

func main() {
	cmd.Execute()
}
