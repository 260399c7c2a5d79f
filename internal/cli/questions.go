package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vocalhire/interview/internal/catalog"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/utils"
)

func newQuestionsCmd() *cobra.Command {
	var role, difficulty string
	var trendy bool

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the interview questions for a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return err
			}
			role = utils.NormalizeRole(role)
			if !cat.RoleExists(role) {
				matches := cat.SearchRoles(role)
				if len(matches) == 0 {
					return fmt.Errorf("unknown role %q", role)
				}
				return fmt.Errorf("unknown role %q, did you mean: %v", role, matches)
			}
			difficulty = utils.NormalizeDifficulty(difficulty)
			if !models.ValidDifficulties[difficulty] {
				return fmt.Errorf("difficulty must be one of %v", models.ValidDifficultiesList())
			}

			settings := models.InterviewSettings{Role: role, Difficulty: difficulty}
			questions := cat.QuestionsForRole(role, difficulty)
			if trendy {
				questions = cat.InterviewQuestions(settings)
			}

			category, _ := cat.CategoryOf(role)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, %s)\n", role, category, difficulty)
			for i, q := range questions {
				fmt.Fprintf(out, "%2d. %s\n", i+1, q)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "", "role name from the catalog")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", models.DifficultyMedium, "easy, medium or hard")
	cmd.Flags().BoolVar(&trendy, "trendy", false, "include the trending questions appended to live sessions")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
