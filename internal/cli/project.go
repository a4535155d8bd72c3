package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/usecase"
)

var (
	projectName        string
	projectDescription string
	projectToken       string
	projectJSON        bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage registered datasets",
	Long: `Register datasets as projects so later commands can refer to them by a
short id instead of a path. Projects expire after the configured
retention period; 'tessera cleanup' removes expired ones.`,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <dataset>",
	Short: "Register a dataset as a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectInfoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show a project's details and saved selections",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectInfo,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project and its selections",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd, projectInfoCmd, projectListCmd, projectDeleteCmd)

	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "project name (default is the dataset name)")
	projectCreateCmd.Flags().StringVar(&projectDescription, "description", "", "project description")
	projectCreateCmd.Flags().BoolVar(&projectJSON, "json", false, "output as JSON")

	projectInfoCmd.Flags().BoolVar(&projectJSON, "json", false, "output as JSON")
	projectListCmd.Flags().BoolVar(&projectJSON, "json", false, "output as JSON")

	projectDeleteCmd.Flags().StringVar(&projectToken, "token", "", "access token (required)")
	projectDeleteCmd.MarkFlagRequired("token")
}

func projectUseCase() (*usecase.ProjectUseCase, func() error, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	cfg := GetConfig()
	return usecase.NewProjectUseCase(loader, st, cfg.Storage.RetentionDays), st.Close, nil
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	uc, closeStore, err := projectUseCase()
	if err != nil {
		return err
	}
	defer closeStore()

	project, err := uc.Create(usecase.CreateProjectParams{
		DatasetPath: args[0],
		Name:        projectName,
		Description: projectDescription,
	})
	if err != nil {
		return err
	}

	if projectJSON {
		data, _ := json.MarshalIndent(project, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Created project %s (%s)\n", project.ID, project.DatasetName)
	fmt.Printf("  Episodes:     %d\n", project.EpisodeCount)
	if project.Dimension > 0 {
		fmt.Printf("  Embedding:    %d-dim\n", project.Dimension)
	}
	fmt.Printf("  Expires:      %s\n", project.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("  Access token: %s\n", project.AccessToken)
	fmt.Println("\nKeep the access token; it is required to delete the project.")
	return nil
}

func runProjectInfo(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	project, err := st.GetProject(args[0])
	if err != nil {
		return err
	}
	selections, err := st.ListSelections(project.ID)
	if err != nil {
		return err
	}

	if projectJSON {
		data, _ := json.MarshalIndent(struct {
			Project    domain.Project     `json:"project"`
			Selections []domain.Selection `json:"selections"`
		}{project, selections}, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	printProject(project)
	if len(selections) > 0 {
		fmt.Println("  Selections:")
		for _, sel := range selections {
			fmt.Printf("    %s\n", sel.String())
		}
	}
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.ListProjects()
	if err != nil {
		return err
	}

	if projectJSON {
		data, _ := json.MarshalIndent(projects, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(projects) == 0 {
		fmt.Println("No projects registered.")
		return nil
	}
	for _, p := range projects {
		printProject(p)
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	uc, closeStore, err := projectUseCase()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := uc.Delete(args[0], projectToken); err != nil {
		return err
	}
	fmt.Printf("Deleted project %s\n", args[0])
	return nil
}

func printProject(p domain.Project) {
	fmt.Printf("%s: %s (%d episodes", p.ID, p.DatasetName, p.EpisodeCount)
	if p.Dimension > 0 {
		fmt.Printf(", %d-dim", p.Dimension)
	}
	fmt.Printf(")\n")
	fmt.Printf("  Dataset: %s\n", p.DatasetPath)
	fmt.Printf("  Expires: %s\n", p.ExpiresAt.Format(time.RFC3339))
}
