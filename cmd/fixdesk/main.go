// Command fixdesk runs the fixdesk maintenance service.
package main

func main() {
	Execute()
}
