package main

import (
	"github.com/inletio/inlet"
	driver "github.com/inletio/inlet/drivers/rest/internal"
)

func main() {
	inlet.RegisterDriver(driver.New())
}
