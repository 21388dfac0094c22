package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"financas/internal/services"
)

func paymentMethodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "formas-pagamento",
		Aliases: []string{"payment-methods"},
		Short:   "Manage the shared payment method list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the default payment methods that are missing",
		Args:  cobra.NoArgs,
		RunE:  runSeedPaymentMethods,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "listar",
		Short: "List payment methods, inactive ones included",
		Args:  cobra.NoArgs,
		RunE:  runListPaymentMethods,
	})

	return cmd
}

func runSeedPaymentMethods(cmd *cobra.Command, _ []string) error {
	be, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = be.Cleanup() }()

	added, err := services.NewPaymentMethodService(be.Store, nil).Seed(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d payment method(s) added\n", added)
	return nil
}

func runListPaymentMethods(cmd *cobra.Command, _ []string) error {
	be, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = be.Cleanup() }()

	methods, err := services.NewPaymentMethodService(be.Store, nil).List(cmd.Context(), true)
	if err != nil {
		return err
	}
	for _, p := range methods {
		mark := ""
		if !p.Active {
			mark = " (inativa)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s%s\n", p.ID, p.Name, mark)
	}
	return nil
}
