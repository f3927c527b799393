package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ytakahashi/taskboard/internal/models"
	"github.com/ytakahashi/taskboard/internal/services"
	"github.com/ytakahashi/taskboard/internal/session"
	"github.com/ytakahashi/taskboard/internal/sorting"
)

func newInspectCmd(load loader) *cobra.Command {
	var (
		sortSpec string
		email    string
		criteria sorting.Criteria
	)

	cmd := &cobra.Command{
		Use:   "inspect <uid>",
		Short: "Fetch a user's document and print the sorted todo list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := sorting.ParseSpec(sortSpec)
			if err != nil {
				return err
			}
			if criteria.Status != "" && criteria.Status != models.FilterAll {
				if criteria.Status, err = models.ParseStatusName(criteria.Status); err != nil {
					return err
				}
			}
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			state := session.New()
			data := services.NewUserData(store, nil)
			err = data.FetchUserData(ctx, &services.Account{UID: args[0], Email: email}, state)
			if errors.Is(err, services.ErrNoSuchDocument) {
				fmt.Fprintf(cmd.ErrOrStderr(), "no document for %s; a default one was provisioned\n", args[0])
			} else if err != nil {
				return err
			}

			user, _ := state.Current()
			todos := sorting.Sort(sorting.Filter(user.Todos, criteria), spec)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				UID   string        `json:"uid"`
				Email string        `json:"email"`
				Sort  string        `json:"sort"`
				Todos []models.Todo `json:"todos"`
			}{user.UID, user.Email, spec.String(), todos})
		},
	}

	cmd.Flags().StringVar(&sortSpec, "sort", models.DefaultSorting, `ordering, e.g. "priority, Asc"`)
	cmd.Flags().StringVar(&email, "email", "", "email written if a default document is provisioned")
	cmd.Flags().StringVar(&criteria.Priority, "priority", "", "only todos of this priority")
	cmd.Flags().StringVar(&criteria.Status, "status", "", "only todos of this status (inProgress, done)")
	cmd.Flags().StringVar(&criteria.Category, "category", "", "only todos of this category key")
	return cmd
}
