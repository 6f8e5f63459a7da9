package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/seo-atlas/pkg/services/content"
)

func NewContentCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Generate and publish AI content",
	}

	cmd.AddCommand(newContentGenerateCmd(env))
	cmd.AddCommand(newContentSaveCmd(env))
	cmd.AddCommand(newContentListCmd(env))
	return cmd
}

func newContentGenerateCmd(env *Env) *cobra.Command {
	var req content.GenerateRequest
	cmd := &cobra.Command{
		Use:   "generate <keyword>",
		Short: "Generate a draft for a keyword or topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Keyword = args[0]
			draft, remaining, err := env.Ops.GenerateContent(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := env.Reporter.Draft(draft); err != nil {
				return err
			}
			if remaining >= 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d free generations left this month\n", remaining)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ContentType, "type", "", "Content type (default blog_post)")
	cmd.Flags().StringVar(&req.Length, "length", "", "short, medium or long")
	cmd.Flags().StringVar(&req.Tone, "tone", "", "Writing tone, e.g. professional")
	cmd.Flags().StringVar(&req.Language, "language", "", "Output language, e.g. pt_BR")
	return cmd
}

type ContentSaveCmd struct {
	env      *Env
	draftID  int64
	title    string
	bodyPath string
	status   string
}

func newContentSaveCmd(env *Env) *cobra.Command {
	sc := &ContentSaveCmd{env: env}
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a draft as a post",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	cmd.Flags().Int64Var(&sc.draftID, "draft", 0, "Draft id to mark as published")
	cmd.Flags().StringVar(&sc.title, "title", "", "Post title")
	cmd.Flags().StringVar(&sc.bodyPath, "body-file", "", "File holding the post body")
	cmd.Flags().StringVar(&sc.status, "status", "draft", "draft or publish")

	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("body-file")
	return cmd
}

func (sc *ContentSaveCmd) run(cmd *cobra.Command, _ []string) error {
	body, err := os.ReadFile(sc.bodyPath)
	if err != nil {
		return fmt.Errorf("failed to read post body: %w", err)
	}

	id, err := sc.env.Ops.SaveContent(cmd.Context(), content.SaveRequest{
		DraftID: sc.draftID,
		Title:   sc.title,
		Body:    string(body),
		Status:  sc.status,
	})
	if err != nil {
		return err
	}
	return sc.env.Reporter.Message("Post %d created successfully!", id)
}

func newContentListCmd(env *Env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			drafts, err := env.Ops.ListDrafts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return env.Reporter.Drafts(drafts)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of drafts to list")
	return cmd
}
