// droidlog - Android logcat parsing tool
//
// droidlog turns `adb logcat -v threadtime` output into structured records
// that can be filtered and printed as text or JSON.
package main

import (
	"os"

	"github.com/ccollicutt/droidlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
