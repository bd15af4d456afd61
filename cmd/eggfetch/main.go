// SPDX-License-Identifier: MPL-2.0

// eggfetch installs eggs (release archives) from a hatchery registry.
package main

func main() {
	Execute()
}
