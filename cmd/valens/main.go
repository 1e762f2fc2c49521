// Package main is the valens command line calculator.
package main

func main() {
	Execute()
}
