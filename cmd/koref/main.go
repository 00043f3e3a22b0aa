// Command koref runs the coreference rules over CoNLL-U files.
package main

import "github.com/cours-de-latin/koref/internal/cli"

func main() {
	cli.Main()
}
