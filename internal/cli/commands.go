package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raysh454/sbrowser/internal/document"
)

func newGetCommand(opts *options) *cobra.Command {
	var (
		params []string
		find   string
		xpath  string
		attr   string
	)
	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Fetch a URL and print the body or the selected elements.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(params)
			if err != nil {
				return err
			}
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			body, err := a.Browser.Get(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case find != "":
				return printElements(out, a.Browser.FindAll(find), attr)
			case xpath != "":
				els, err := a.Browser.XPath(xpath)
				if err != nil {
					return err
				}
				return printElements(out, els, attr)
			default:
				_, err = out.Write(body)
				return err
			}
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter name=value, repeatable")
	cmd.Flags().StringVar(&find, "find", "", "print the text of elements matching a CSS selector")
	cmd.Flags().StringVar(&xpath, "xpath", "", "print the text of elements matching an XPath expression")
	cmd.Flags().StringVar(&attr, "attr", "", "print this attribute instead of the element text")
	return cmd
}

func printElements(out io.Writer, els []*document.Element, attr string) error {
	for _, el := range els {
		line := strings.TrimSpace(el.Text())
		if attr != "" {
			v, ok := el.Attr(attr)
			if !ok {
				continue
			}
			line = v
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func newPostCommand(opts *options) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "post <url>",
		Short: "POST form-encoded parameters and print the body.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(params)
			if err != nil {
				return err
			}
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			body, err := a.Browser.Post(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "body parameter name=value, repeatable")
	return cmd
}

func newFormsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "forms <url>",
		Short: "Fetch a page and print its forms as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Browser.Get(cmd.Context(), args[0], nil); err != nil {
				return err
			}
			forms, err := a.Browser.Forms(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(forms)
		},
	}
}

func newSubmitCommand(opts *options) *cobra.Command {
	var (
		selector string
		sets     []string
	)
	cmd := &cobra.Command{
		Use:   "submit <url>",
		Short: "Fetch a page, fill in one of its forms and submit it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(sets)
			if err != nil {
				return err
			}
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if _, err := a.Browser.Get(ctx, args[0], nil); err != nil {
				return err
			}
			form, err := a.Browser.Form(ctx, selector)
			if err != nil {
				return err
			}
			if form == nil {
				return fmt.Errorf("no form matches %q", selector)
			}
			values.Each(form.Fields.Set)

			body, err := a.Browser.SubmitForm(ctx, form)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	cmd.Flags().StringVar(&selector, "form", "form", "CSS selector of the form to submit")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value name=value, repeatable")
	return cmd
}

func newDownloadCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "download <url> <dest>",
		Short: "Save a URL to a file, replacing it if it exists.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Browser.DownloadFile(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", args[1])
			return nil
		},
	}
}
