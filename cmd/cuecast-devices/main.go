// Command cuecast-devices lists the output devices cuecast can bind to.
// The printed id is what goes into the config's output_device_id field.
package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/cuecast/audio"
)

func main() {
	devices, err := audio.OutputDevices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "device enumeration failed: %v\n", err)
		os.Exit(1)
	}
	if len(devices) == 0 {
		fmt.Println("no output devices found")
		return
	}

	for _, d := range devices {
		marker := "  "
		if d.Default {
			marker = "* "
		}
		fmt.Printf("%s%s\n", marker, d.Label)
		fmt.Printf("    id: %q\n", d.ID)
	}
}
