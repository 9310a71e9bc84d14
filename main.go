// git-where finds the local clones of a remote repository: it walks a
// directory tree concurrently and reports every git repository whose
// remotes reference a given owner/repo identity.
package main

import (
	"git-where/cmd"
)

func main() {
	cmd.Execute()
}
