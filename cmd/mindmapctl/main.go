package main

import (
	"os"

	"github.com/yungbote/mindmap-backend/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
