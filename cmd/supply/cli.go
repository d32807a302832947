package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/supply/internal/config"
	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/ops"
	"github.com/hpungsan/supply/internal/web"
)

// stdinIsTerminal is swapped out in tests.
var stdinIsTerminal = isTerminal

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st *ops.State, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "supply",
		Usage:   "Household supplies and shopping list",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "text", Aliases: []string{"t"}, Usage: "Human-readable output instead of JSON"},
		},
		Commands: []*cli.Command{
			categoryCmd(st),
			itemCmd(st),
			itemsCmd(st),
			shoppingCmd(st),
			summaryCmd(st),
			exportCmd(st, cfg),
			importCmd(st, cfg),
			resetCmd(st),
			uiCmd(st),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"}
}

func categoryFlag() cli.Flag {
	return &cli.StringFlag{Name: "category", Aliases: []string{"c"}, Required: true, Usage: "Category id"}
}

// categoryCmd creates the category command group.
func categoryCmd(st *ops.State) *cli.Command {
	return &cli.Command{
		Name:  "category",
		Usage: "Manage categories",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a category",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Usage: "Hex color, e.g. #22c55e"},
					&cli.IntFlag{Name: "order", Aliases: []string{"o"}, Usage: "Sort order (default: after the last category)"},
				},
				Action: func(c *cli.Context) error {
					input := ops.AddCategoryInput{
						Name:  strings.Join(c.Args().Slice(), " "),
						Color: c.String("color"),
					}
					if c.IsSet("order") {
						order := c.Int("order")
						input.SortOrder = &order
					}

					output, err := ops.AddCategory(c.Context, st, input)
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						printOK(w, "Added category "+output.Category.Name)
					})
				},
			},
			{
				Name:      "edit",
				Usage:     "Rename, recolor or reorder a category",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name (the id is kept)"},
					&cli.StringFlag{Name: "color", Usage: "New hex color"},
					&cli.IntFlag{Name: "order", Aliases: []string{"o"}, Usage: "New sort order"},
				},
				Action: func(c *cli.Context) error {
					input := ops.EditCategoryInput{ID: c.Args().First()}
					if input.ID == "" {
						return outputError(errors.NewInvalidRequest("category id is required"))
					}
					if c.IsSet("name") {
						name := c.String("name")
						input.Name = &name
					}
					if c.IsSet("color") {
						color := c.String("color")
						input.Color = &color
					}
					if c.IsSet("order") {
						order := c.Int("order")
						input.SortOrder = &order
					}

					output, err := ops.EditCategory(c.Context, st, input)
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						printOK(w, "Updated category "+output.Category.Name)
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a category and all of its items",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{yesFlag()},
				Action: func(c *cli.Context) error {
					id := c.Args().First()
					if id == "" {
						return outputError(errors.NewInvalidRequest("category id is required"))
					}

					output, err := ops.DeleteCategory(c.Context, st, ops.DeleteCategoryInput{ID: id}, confirmer(c))
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						printOK(w, fmt.Sprintf("Deleted %s and %d items", output.ID, output.ItemsRemoved))
					})
				},
			},
			{
				Name:  "list",
				Usage: "List categories",
				Action: func(c *cli.Context) error {
					output := ops.Categories(st)
					return outputResult(c, output, func(w io.Writer) {
						renderCategories(w, output.Categories)
					})
				},
			},
		},
	}
}

// itemCmd creates the item command group.
func itemCmd(st *ops.State) *cli.Command {
	return &cli.Command{
		Name:  "item",
		Usage: "Manage items",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add an item to a category",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					categoryFlag(),
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes (markdown)"},
					&cli.BoolFlag{Name: "on-list", Aliases: []string{"l"}, Usage: "Put the item on the shopping list"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.AddItem(c.Context, st, ops.AddItemInput{
						CategoryID: c.String("category"),
						Name:       strings.Join(c.Args().Slice(), " "),
						Notes:      c.String("notes"),
						OnList:     c.Bool("on-list"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						printOK(w, fmt.Sprintf("Added %s (%s)", output.Item.Name, output.Item.ID))
					})
				},
			},
			{
				Name:      "edit",
				Usage:     "Edit an item, optionally moving it to another category",
				ArgsUsage: "<item-id>",
				Flags: []cli.Flag{
					categoryFlag(),
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
					&cli.StringFlag{Name: "notes", Usage: "New notes"},
					&cli.BoolFlag{Name: "on-list", Aliases: []string{"l"}, Usage: "Set shopping list membership (--on-list=false to remove)"},
					&cli.StringFlag{Name: "move-to", Aliases: []string{"m"}, Usage: "Destination category id"},
				},
				Action: func(c *cli.Context) error {
					input := ops.EditItemInput{
						ItemID:             c.Args().First(),
						OriginalCategoryID: c.String("category"),
						NewCategoryID:      c.String("move-to"),
					}
					if input.ItemID == "" {
						return outputError(errors.NewInvalidRequest("item id is required"))
					}
					if c.IsSet("name") {
						name := c.String("name")
						input.Name = &name
					}
					if c.IsSet("notes") {
						notes := c.String("notes")
						input.Notes = &notes
					}
					if c.IsSet("on-list") {
						onList := c.Bool("on-list")
						input.OnList = &onList
					}

					output, err := ops.EditItem(c.Context, st, input)
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						printOK(w, fmt.Sprintf("Updated %s in %s", output.Item.Name, output.CategoryID))
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete an item",
				ArgsUsage: "<item-id>",
				Flags:     []cli.Flag{categoryFlag(), yesFlag()},
				Action: func(c *cli.Context) error {
					ref, err := itemRef(c)
					if err != nil {
						return outputError(err)
					}
					output, err := ops.DeleteItem(c.Context, st, ref, confirmer(c))
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						printOK(w, "Deleted "+output.ItemID)
					})
				},
			},
			{
				Name:      "toggle",
				Usage:     "Flip an item's shopping list membership",
				ArgsUsage: "<item-id>",
				Flags:     []cli.Flag{categoryFlag()},
				Action: func(c *cli.Context) error {
					ref, err := itemRef(c)
					if err != nil {
						return outputError(err)
					}
					output, err := ops.ToggleItem(c.Context, st, ref)
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						state := "off"
						if output.Item.IsOnShoppingList {
							state = "on"
						}
						printOK(w, fmt.Sprintf("%s is %s the shopping list", output.Item.Name, state))
					})
				},
			},
			{
				Name:      "check",
				Usage:     "Check an item off the shopping list",
				ArgsUsage: "<item-id>",
				Flags:     []cli.Flag{categoryFlag()},
				Action: func(c *cli.Context) error {
					ref, err := itemRef(c)
					if err != nil {
						return outputError(err)
					}
					output, err := ops.CheckOffItem(c.Context, st, ref)
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						printOK(w, "Checked off "+output.Item.Name)
					})
				},
			},
		},
	}
}

// itemsCmd creates the items command.
func itemsCmd(st *ops.State) *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "List all items grouped by category",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Case-insensitive name filter"},
		},
		Action: func(c *cli.Context) error {
			output := ops.AllItems(st, c.String("search"))
			return outputResult(c, output, func(w io.Writer) {
				renderSections(w, output.Sections, true)
			})
		},
	}
}

// shoppingCmd creates the shopping command.
func shoppingCmd(st *ops.State) *cli.Command {
	return &cli.Command{
		Name:  "shopping",
		Usage: "Show the shopping list",
		Action: func(c *cli.Context) error {
			output := ops.ShoppingList(st)
			return outputResult(c, output, func(w io.Writer) {
				if output.Total == 0 {
					fmt.Fprintln(w, mutedStyle.Render("Nothing to buy."))
					return
				}
				renderSections(w, output.Sections, false)
			})
		},
		Subcommands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Take every item off the shopping list",
				Flags: []cli.Flag{yesFlag()},
				Action: func(c *cli.Context) error {
					output, err := ops.ClearShoppingList(c.Context, st, confirmer(c))
					if err != nil {
						return outputError(err)
					}
					return outputResult(c, output, func(w io.Writer) {
						printOK(w, fmt.Sprintf("Cleared %d items", output.Cleared))
					})
				},
			},
		},
	}
}

// summaryCmd creates the summary command.
func summaryCmd(st *ops.State) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Show category and item counts",
		Action: func(c *cli.Context) error {
			output := ops.Summary(st)
			return outputResult(c, output, func(w io.Writer) {
				renderSummary(w, output)
			})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(st *ops.State, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all data to a JSON backup file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.supply/exports/Supply_Backup_<date>.json)"},
			&cli.BoolFlag{Name: "stdout", Usage: "Write the document to stdout instead of a file"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("stdout") {
				if c.IsSet("path") {
					return outputError(errors.NewInvalidRequest("--path and --stdout are mutually exclusive"))
				}
				data, err := ops.ExportDocument(st)
				if err != nil {
					return outputError(err)
				}
				_, err = c.App.Writer.Write(data)
				return err
			}

			output, err := ops.Export(c.Context, st, cfg, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputResult(c, output, func(w io.Writer) {
				printOK(w, fmt.Sprintf("Exported %d categories and %d items to %s", output.Categories, output.Items, output.Path))
			})
		},
	}
}

// importCmd creates the import command.
func importCmd(st *ops.State, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Replace all data with a JSON backup (from --path or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Import file path"},
		},
		Action: func(c *cli.Context) error {
			var (
				output *ops.ImportOutput
				err    error
			)
			switch {
			case c.IsSet("path"):
				output, err = ops.Import(c.Context, st, cfg, ops.ImportInput{Path: c.String("path")})
			case stdinHasData():
				var raw string
				raw, err = readStdin(ops.MaxImportBytes)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				output, err = ops.ImportDocument(c.Context, st, []byte(raw))
			default:
				return outputError(errors.NewInvalidRequest("provide --path or pipe a document via stdin"))
			}
			if err != nil {
				return outputError(err)
			}
			return outputResult(c, output, func(w io.Writer) {
				printOK(w, fmt.Sprintf("Imported %d categories and %d items", output.Categories, output.Items))
			})
		},
	}
}

// resetCmd creates the reset command.
func resetCmd(st *ops.State) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete all categories and items",
		Flags: []cli.Flag{yesFlag()},
		Action: func(c *cli.Context) error {
			output, err := ops.ResetAllData(c.Context, st, confirmer(c))
			if err != nil {
				return outputError(err)
			}
			return outputResult(c, output, func(w io.Writer) {
				printOK(w, fmt.Sprintf("Removed %d categories and %d items", output.CategoriesRemoved, output.ItemsRemoved))
			})
		},
	}
}

// uiCmd creates the ui command.
func uiCmd(st *ops.State) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Serve the web UI",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "Port to listen on"},
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
		},
		Action: func(c *cli.Context) error {
			return web.Run(web.NewServer(st, Version, c.String("bind"), c.Int("port")))
		},
	}
}

// Helper functions

// confirmer picks how a destructive command is confirmed: --yes, an
// interactive prompt, or refusal when stdin is not a terminal.
func confirmer(c *cli.Context) ops.Confirmer {
	if c.Bool("yes") {
		return ops.Confirmed(true)
	}
	if stdinIsTerminal() {
		return ops.PromptConfirmer{In: c.App.Reader, Out: c.App.ErrWriter}
	}
	return ops.Confirmed(false)
}

func itemRef(c *cli.Context) (ops.ItemRef, error) {
	ref := ops.ItemRef{ItemID: c.Args().First(), CategoryID: c.String("category")}
	if ref.ItemID == "" {
		return ref, errors.NewInvalidRequest("item id is required")
	}
	return ref, nil
}

// outputResult writes v as JSON, or through text when --text is set.
func outputResult(c *cli.Context, v any, text func(io.Writer)) error {
	if c.Bool("text") {
		text(c.App.Writer)
		return nil
	}
	return outputJSON(c.App.Writer, v)
}

// outputJSON marshals result as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var sErr *errors.SupplyError
	if stderrors.As(err, &sErr) {
		msg := fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message)
		if sErr.Code == errors.ErrConfirmationRequired {
			msg += " (re-run with --yes)"
		}
		return cli.Exit(msg, 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads up to limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}
