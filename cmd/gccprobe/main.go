// SPDX-License-Identifier: MPL-2.0

// gccprobe discovers and models the command-line option space of a GCC
// compiler, local or dockerized, and dumps it for inspection.
package main

func main() {
	Execute()
}
