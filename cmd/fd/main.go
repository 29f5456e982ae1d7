// Command fd is the operator CLI for a Fixdesk server.
package main

func main() {
	Execute()
}
