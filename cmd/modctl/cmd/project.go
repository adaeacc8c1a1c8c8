package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/projects"
	"github.com/good-yellow-bee/modites/internal/storage"
)

var (
	projectName   string
	projectID     string
	projectDesc   string
	projectMember string
	projectForce  bool
)

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long: `Manage the projects shown on member detail pages.

Projects live in the SQLite database used by modites-server. Members are
referenced by their roster ID.

Commands:
  list           List all projects
  create         Create a new project
  show           Show project details
  delete         Delete a project
  add-member     Add a roster member to a project
  remove-member  Remove a roster member from a project
  import         Import projects from a YAML seed file`,
}

// projectListCmd lists all projects
var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Long: `List all projects with their member counts.

Examples:
  modctl project list
  modctl project list -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openProjectDB()
		if err != nil {
			return err
		}
		defer db.Close()

		list, err := db.Projects().List(context.Background())
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}

		out := cmd.OutOrStdout()
		if GetOutput() == "json" {
			if list == nil {
				list = []*models.Project{}
			}
			return writeJSON(out, list)
		}

		if len(list) == 0 {
			fmt.Fprintln(out, "No projects found.")
			return nil
		}

		if GetOutput() == "plain" {
			for _, p := range list {
				fmt.Fprintf(out, "%s\t%s\t%s\n", p.ID, p.Name, strings.Join(p.MemberIDs(), ","))
			}
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-24s  %-36s  %s\n", "ID", "NAME", "DESCRIPTION", "MEMBERS")
		fmt.Fprintln(out, strings.Repeat("-", 110))
		for _, p := range list {
			fmt.Fprintf(out, "%-36s  %-24s  %-36s  %d\n",
				p.ID, truncate(p.Name, 24), truncate(p.Description, 36), len(p.Users))
		}
		fmt.Fprintf(out, "\nTotal: %d project(s)\n", len(list))
		return nil
	},
}

// projectCreateCmd creates a new project
var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project",
	Long: `Create a new project.

Examples:
  modctl project create --name "Mosquito" --description "Slack bot"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := projects.ValidateName(projectName); err != nil {
			return err
		}
		name := strings.TrimSpace(projectName)

		db, err := openProjectDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		existing, err := db.Projects().GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("check existing project: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("project already exists: %s", name)
		}

		project := models.NewProject(name, strings.TrimSpace(projectDesc))
		project.ID = uuid.New().String()
		if err := db.Projects().Create(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Project created: %s (%s)\n", project.Name, project.ID)
		return nil
	},
}

// projectShowCmd shows project details
var projectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show project details",
	Long: `Show details of a project including its members.

Examples:
  modctl project show --name Mosquito
  modctl project show --id 550e8400-e29b-41d4-a716-446655440000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openProjectDB()
		if err != nil {
			return err
		}
		defer db.Close()

		project, err := resolveProject(context.Background(), db.Projects(), projectName, projectID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if GetOutput() == "json" {
			return writeJSON(out, project)
		}

		fmt.Fprintln(out, "\nProject Details:")
		fmt.Fprintf(out, "  ID:          %s\n", project.ID)
		fmt.Fprintf(out, "  Name:        %s\n", project.Name)
		fmt.Fprintf(out, "  Description: %s\n", project.Description)
		fmt.Fprintf(out, "  Members:     %s\n", strings.Join(project.MemberIDs(), ", "))
		fmt.Fprintf(out, "  Created:     %s\n", project.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  Updated:     %s\n", project.UpdatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

// projectDeleteCmd deletes a project
var projectDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a project",
	Long: `Delete a project and its memberships.

Examples:
  modctl project delete --name Mosquito
  modctl project delete --name Mosquito --force  # skip confirmation`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openProjectDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		project, err := resolveProject(ctx, db.Projects(), projectName, projectID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !projectForce && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete project '%s'?", project.Name)) {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		if err := db.Projects().Delete(ctx, project.ID); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}

		fmt.Fprintf(out, "Project deleted: %s\n", project.Name)
		return nil
	},
}

// projectAddMemberCmd adds a member to a project
var projectAddMemberCmd = &cobra.Command{
	Use:   "add-member",
	Short: "Add a roster member to a project",
	Long: `Add a roster member to a project. Adding an existing member is a no-op.

Examples:
  modctl project add-member --name Mosquito --member U024BE7LH`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeMembership(cmd, func(ctx context.Context, repo storage.ProjectRepository, p *models.Project, member string) (string, error) {
			if err := repo.AddMember(ctx, p.ID, member); err != nil {
				return "", fmt.Errorf("add member: %w", err)
			}
			return fmt.Sprintf("Added %s to project '%s'", member, p.Name), nil
		})
	},
}

// projectRemoveMemberCmd removes a member from a project
var projectRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member",
	Short: "Remove a roster member from a project",
	Long: `Remove a roster member from a project.

Examples:
  modctl project remove-member --name Mosquito --member U024BE7LH`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeMembership(cmd, func(ctx context.Context, repo storage.ProjectRepository, p *models.Project, member string) (string, error) {
			if err := repo.RemoveMember(ctx, p.ID, member); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return "", fmt.Errorf("%s is not a member of project '%s'", member, p.Name)
				}
				return "", fmt.Errorf("remove member: %w", err)
			}
			return fmt.Sprintf("Removed %s from project '%s'", member, p.Name), nil
		})
	},
}

// projectImportCmd imports a seed file
var projectImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import projects from a YAML seed file",
	Long: `Import projects from a YAML seed file. Projects are matched by name;
existing projects get their description and member list replaced.

Seed file format:
  projects:
    - name: Mosquito
      description: Slack bot
      members: [U024BE7LH, U0G9QF9C6]

Examples:
  modctl project import configs/projects.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := openProjectDB()
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := projects.NewImporter(db.Projects(), logger).ImportFile(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d created, %d updated\n", args[0], res.Created, res.Updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectAddMemberCmd)
	projectCmd.AddCommand(projectRemoveMemberCmd)
	projectCmd.AddCommand(projectImportCmd)

	// Create flags
	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "project name (required)")
	projectCreateCmd.Flags().StringVar(&projectDesc, "description", "", "project description")
	projectCreateCmd.MarkFlagRequired("name")

	// Lookup flags
	for _, c := range []*cobra.Command{projectShowCmd, projectDeleteCmd, projectAddMemberCmd, projectRemoveMemberCmd} {
		c.Flags().StringVar(&projectName, "name", "", "project name")
		c.Flags().StringVar(&projectID, "id", "", "project ID")
	}

	projectDeleteCmd.Flags().BoolVar(&projectForce, "force", false, "skip confirmation prompt")

	// Membership flags
	for _, c := range []*cobra.Command{projectAddMemberCmd, projectRemoveMemberCmd} {
		c.Flags().StringVar(&projectMember, "member", "", "roster member ID (required)")
		c.MarkFlagRequired("member")
	}
}

type membershipFunc func(ctx context.Context, repo storage.ProjectRepository, p *models.Project, member string) (string, error)

func changeMembership(cmd *cobra.Command, change membershipFunc) error {
	member := strings.TrimSpace(projectMember)
	if member == "" {
		return fmt.Errorf("--member is required")
	}

	db, err := openProjectDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	project, err := resolveProject(ctx, db.Projects(), projectName, projectID)
	if err != nil {
		return err
	}

	msg, err := change(ctx, db.Projects(), project, member)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

// resolveProject finds a project by name or ID (ID takes precedence).
func resolveProject(ctx context.Context, repo storage.ProjectRepository, name, id string) (*models.Project, error) {
	if id == "" && name == "" {
		return nil, fmt.Errorf("specify --name or --id")
	}
	key := name
	lookup := repo.GetByName
	if id != "" {
		key = id
		lookup = repo.GetByID
	}
	p, err := lookup(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("project not found: %s", key)
	}
	return p, nil
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
