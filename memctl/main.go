// Command memctl initializes memory parts on a simulated memory controller
// and shows what the drivers write to it.
package main

import "github.com/sarchlab/memctl/memctl/cmd"

func main() {
	cmd.Execute()
}
