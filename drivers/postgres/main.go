package main

import (
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/inletio/inlet"
	driver "github.com/inletio/inlet/drivers/postgres/internal"
)

func main() {
	postgres := driver.New()
	defer postgres.CloseConnection()
	inlet.RegisterDriver(postgres)
}
