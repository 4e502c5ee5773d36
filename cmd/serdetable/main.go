package main

import (
	"context"
	"os"

	"github.com/JonMunkholm/serdetable/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
