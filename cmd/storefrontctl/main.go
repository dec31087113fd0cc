// Command storefrontctl is a terminal front end for the storefront API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		if errors.Is(err, domain.ErrCanceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "error:", domain.UserMessage(err))
		os.Exit(1)
	}
}
