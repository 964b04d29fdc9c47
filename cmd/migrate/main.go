package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/Kushal-prime/kushalwearback/pkg/config"
	"github.com/Kushal-prime/kushalwearback/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	direction := flag.String("direction", "up", "up, down or status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	switch *direction {
	case "up":
		err = migrate.Up(ctx, sqlDB)
	case "down":
		err = migrate.Down(ctx, sqlDB)
	case "status":
		err = migrate.Status(ctx, sqlDB)
	default:
		err = fmt.Errorf("unknown direction %q", *direction)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", *direction, err)
		os.Exit(1)
	}
}
