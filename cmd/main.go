package main

import (
	"os"

	"fxscan/internal/app"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := app.Run(os.Args[1:]); err != nil {
		logrus.WithError(err).Error("fxscan terminated")
		os.Exit(1)
	}
}
