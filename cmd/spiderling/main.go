// Package main provides the entry point for the spiderling CLI.
//
// spiderling fetches an ordered list of web pages one after another,
// logging each step, and reports the decoded length of every body.
//
// Usage:
//
//	spiderling fetch
//	spiderling fetch https://example.com/ https://example.org/
//
// See --help for all available options.
package main

func main() {
	Execute()
}
