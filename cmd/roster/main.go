// Command roster loads students from a CSV file (id_no,full_name,email[,admin])
// into the students table. Re-running it updates names and emails without
// touching registration state.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/voter-api/internal/application/student"
	"github.com/voter-api/internal/config"
	"github.com/voter-api/internal/infrastructure/dynamo"
	"github.com/voter-api/internal/logging"
)

func main() {
	file := flag.String("file", "-", "roster CSV path, - for stdin")
	dryRun := flag.Bool("dry-run", false, "parse and validate only")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	var in io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			logger.Error("open roster", "file", *file, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	students, err := student.ParseRoster(in)
	if err != nil {
		logger.Error("parse roster", "file", *file, "err", err)
		os.Exit(1)
	}
	if *dryRun {
		logger.Info("roster valid", "students", len(students))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
	repo := dynamo.NewStudentRepo(client, cfg.DynamoTables.Students)

	n, err := student.ImportRoster(ctx, repo, students)
	if err != nil {
		logger.Error("import roster", "written", n, "total", len(students), "err", err)
		os.Exit(1)
	}
	logger.Info("roster imported", "students", n, "table", cfg.DynamoTables.Students)
}
