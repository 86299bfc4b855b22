// Command katsuyo conjugates Japanese verbs with finite-state transducers.
package main

func main() {
	Execute()
}
