package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/edgeext/internal/model"
)

var instanceCmd = &cobra.Command{
	Use:     "instance",
	Short:   "Add, remove, or list instances in a settings file",
	GroupID: "settings",
}

var instanceListCmd = &cobra.Command{
	Use:   "list <settings-file>",
	Short: "List the instances of a settings file with defaults applied",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := loadSettings(args[0])
		if err != nil {
			return err
		}
		instances := newSession(saved).Instances()
		if jsonOutput {
			printJSON(instances)
			return nil
		}
		printInstanceTable(os.Stdout, instances)
		return nil
	},
}

var instanceAddCmd = &cobra.Command{
	Use:   "add <settings-file>",
	Short: "Append a new instance and save the file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		propertyID, _ := cmd.Flags().GetString("property-id")
		orgID, _ := cmd.Flags().GetString("org-id")
		edgeDomain, _ := cmd.Flags().GetString("edge-domain")
		containerID, _ := cmd.Flags().GetString("container-id")
		contexts, _ := cmd.Flags().GetStringSlice("context")

		saved, err := loadSettings(args[0])
		if err != nil {
			return err
		}
		s := newSession(saved)
		// Empty settings already hydrate to one default instance.
		i := 0
		if len(saved.Instances) > 0 {
			i = s.Add()
		}
		err = s.Edit(i, func(in *model.Instance) {
			in.Name = name
			in.PropertyID = propertyID
			if cmd.Flags().Changed("org-id") {
				in.OrganizationID = orgID
			}
			if edgeDomain != "" {
				in.EdgeDomain = edgeDomain
			}
			in.IDSyncContainerID = containerID
			if cmd.Flags().Changed("context") {
				in.ContextGranularity = model.GranularitySpecific
				in.Context = make([]model.ContextTag, len(contexts))
				for j, c := range contexts {
					in.Context[j] = model.ContextTag(c)
				}
			}
		})
		if err != nil {
			return err
		}

		trimmed, err := s.Submit()
		if err != nil {
			return printValidationErrors(err)
		}
		return persist(context.Background(), s, trimmed, args[0], false)
	},
}

var instanceRemoveCmd = &cobra.Command{
	Use:   "remove <settings-file> <index>",
	Short: "Remove an instance and save the file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}

		saved, err := loadSettings(args[0])
		if err != nil {
			return err
		}
		s := newSession(saved)
		if index < 0 || index >= s.Len() {
			return fmt.Errorf("instance index %d out of range [0, %d)", index, s.Len())
		}
		name := s.Instances()[index].Name
		removed, err := s.Remove(index, func() bool {
			return yes || confirm(fmt.Sprintf("Remove instance %q? Any rules using it will need to be updated.", name))
		})
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println("Canceled")
			return nil
		}

		trimmed, err := s.Submit()
		if err != nil {
			return printValidationErrors(err)
		}
		return persist(context.Background(), s, trimmed, args[0], false)
	},
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	instanceAddCmd.Flags().String("name", model.DefaultInstanceName, "instance name (global object name)")
	instanceAddCmd.Flags().String("property-id", "", "edge configuration (property) ID")
	instanceAddCmd.Flags().String("org-id", "", "IMS organization ID (default from config)")
	instanceAddCmd.Flags().String("edge-domain", "", "edge domain (default "+model.DefaultEdgeDomain+")")
	instanceAddCmd.Flags().String("container-id", "", "ID sync container ID or data element")
	instanceAddCmd.Flags().StringSlice("context", nil, "collect only these context categories")

	instanceRemoveCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	instanceCmd.AddCommand(instanceListCmd)
	instanceCmd.AddCommand(instanceAddCmd)
	instanceCmd.AddCommand(instanceRemoveCmd)
}
