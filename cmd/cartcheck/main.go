package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yungbote/cartcheck/internal/platform/faults"
	"github.com/yungbote/cartcheck/internal/services"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates rejected carts from infrastructure faults so scripts can
// tell them apart.
func exitCode(err error) int {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return 2
	}
	var fe *faults.Error
	switch {
	case !errors.As(err, &fe):
		return 1
	case fe.Code == faults.CodeNotFound:
		return 3
	case faults.Retryable(err):
		return 4
	default:
		return 5
	}
}
