// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/MystenLabs/suiup/cmd/suiup"

func main() {
	cmd.Execute()
}
