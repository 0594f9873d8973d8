// Package cli implements the ims command line: one-shot view actions and
// the console server.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/99minutos/ims-console/internal/app"
	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/infrastructure/config"
	"github.com/99minutos/ims-console/internal/output"
	"github.com/99minutos/ims-console/pkg/logger"
)

// runtime is shared by every command once the root pre-run has completed.
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	app     *app.App
	printer *output.Printer
	stderr  io.Writer
}

// notifying is satisfied by every view controller.
type notifying interface {
	Notification() (domain.Notification, bool)
}

// NewRootCmd builds the ims command tree.
func NewRootCmd() *cobra.Command {
	rt := &runtime{}
	var format string

	root := &cobra.Command{
		Use:   "ims",
		Short: "IMS console - inventory, orders, suppliers and reports",
		Long: `ims drives the inventory management screens from the terminal, or serves
them to a local browser page with "ims serve".

The session is kept between runs in the configured storage (STORAGE_DRIVER).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return rt.start(cmd, f)
		},
	}
	root.PersistentFlags().StringVarP(&format, "output", "o", "table", "output format (table, json, yaml)")
	cobra.OnFinalize(rt.close)

	root.AddCommand(
		newServeCmd(rt),
		newLoginCmd(rt),
		newLogoutCmd(rt),
		newSignUpCmd(rt),
		newWhoAmICmd(rt),
		newProfileCmd(rt),
		newProductsCmd(rt),
		newOrdersCmd(rt),
		newSuppliersCmd(rt),
		newReportsCmd(rt),
	)
	return root
}

func (rt *runtime) start(cmd *cobra.Command, format output.Format) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Output:  cmd.ErrOrStderr(),
		Service: "ims-console",
	})
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	rt.cfg, rt.log, rt.app = cfg, log, a
	rt.printer = output.NewPrinter(cmd.OutOrStdout(), format)
	rt.stderr = cmd.ErrOrStderr()
	return nil
}

func (rt *runtime) close() {
	if rt.app == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rt.app.Close(ctx)
	rt.app = nil
}

// notice writes the notification currently shown by v to stderr so stdout
// stays machine readable.
func (rt *runtime) notice(v notifying) {
	if n, ok := v.Notification(); ok {
		fmt.Fprintf(rt.stderr, "%s: %s\n", n.Kind, n.Message)
	}
}

// finish reports the outcome of a view action and prints result on success.
func (rt *runtime) finish(v notifying, result any) error {
	rt.notice(v)
	if result == nil {
		return nil
	}
	return rt.printer.Print(result)
}

// shownError carries the error notification a view displayed for err.
type shownError struct {
	msg string
	err error
}

func (e *shownError) Error() string       { return e.err.Error() }
func (e *shownError) Unwrap() error       { return e.err }
func (e *shownError) UserMessage() string { return e.msg }

// check returns err annotated with the error notification v is showing.
func (rt *runtime) check(v notifying, err error) error {
	if err == nil {
		return nil
	}
	if n, ok := v.Notification(); ok && n.Kind == domain.KindError {
		return &shownError{msg: n.Message, err: err}
	}
	return err
}
