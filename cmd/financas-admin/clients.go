package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"financas/internal/services"
)

func clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clientes",
		Aliases: []string{"clients"},
		Short:   "List clients and toggle their access",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "listar",
		Short: "List every client with its activation state",
		Args:  cobra.NoArgs,
		RunE:  runListClients,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "ativar <id>",
		Short: "Grant dashboard access to a client",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runSetClientActive(cmd, args, true) },
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "desativar <id>",
		Short: "Revoke dashboard access of a client",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runSetClientActive(cmd, args, false) },
	})

	return cmd
}

func runListClients(cmd *cobra.Command, _ []string) error {
	be, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = be.Cleanup() }()

	clients, err := services.NewAccessService(be.Store).ListClients(cmd.Context())
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No clients registered")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tEMAIL\tTELEFONE\tATIVO\tCRIADO EM")
	for _, c := range clients {
		active := "não"
		if c.Active {
			active = "sim"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Email, c.Phone, active, c.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func runSetClientActive(cmd *cobra.Command, args []string, active bool) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid client id %q", args[0])
	}

	be, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = be.Cleanup() }()

	if err := services.NewAccessService(be.Store).SetActive(cmd.Context(), id, active); err != nil {
		return err
	}
	state := "activated"
	if !active {
		state = "deactivated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Client %d %s\n", id, state)
	return nil
}
