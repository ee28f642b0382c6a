// chromamatch - skin tone, undertone, eye and hair colour classification
//
// chromamatch reads a photographed face and its segmentation masks and reports
// the Monk skin tone, undertone, eye colour and hair colour.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"github.com/jmylchreest/chromamatch/internal/cli"
)

func main() {
	cli.Execute()
}
