// Command evermind-migrate reshapes question/answer JSON files and loads
// them into the Evermind study app's MongoDB collection.
package main

import "github.com/mesh-intelligence/evermind-migrate/internal/cli"

func main() {
	cli.Execute()
}
