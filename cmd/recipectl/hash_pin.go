package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/recipebox/backend/internal/service"
)

func newHashPINCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-pin [pin]",
		Short: "Print the bcrypt hash to store as PIN_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pin string
			if len(args) == 1 {
				pin = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("read pin from stdin: no input")
				}
				pin = strings.TrimSpace(line)
			}
			hash, err := service.HashPIN(pin)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
