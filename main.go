/*
main.go

Copyright © 2025 Code Monkey Cybersecurity
Contact: git@cybermonkey.net.au

This file is part of mkpass.

This software is dual-licensed under the Do No Harm License
and the GNU Affero General Public License v3 (AGPL-3.0-or-later).
You may use, modify, and distribute it under the terms of either license.

See LICENSE.agpl and LICENSE.dnh for full details.
*/
package main

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/mkpass/cmd"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/telemetry"
)

func main() {
	logger.InitializeWithFallback()

	if err := telemetry.Init("mkpass"); err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Telemetry disabled:", err)
	}

	cmd.Execute()
}
