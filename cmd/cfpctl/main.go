// Command cfpctl is the operator CLI for the CFP engine.
package main

func main() {
	Execute()
}
