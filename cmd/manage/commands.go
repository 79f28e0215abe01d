// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/migration"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// app holds the stores the commands operate on.
type app struct {
	accounts   account.Repository
	users      *account.Service
	categories *reference.Service
	genres     *reference.Service
	titles     *title.Service
	reviews    *review.Service
	comments   *comment.Service
}

func newApp(db postgres.DB) *app {
	accounts := account.NewRepository(db)
	categories := reference.NewService(reference.NewCategoryRepository(db))
	genres := reference.NewService(reference.NewGenreRepository(db))
	titles := title.NewService(title.NewRepository(db), categories, genres)
	reviews := review.NewService(review.NewRepository(db), titles)

	return &app{
		accounts:   accounts,
		users:      account.NewService(accounts),
		categories: categories,
		genres:     genres,
		titles:     titles,
		reviews:    reviews,
		comments:   comment.NewService(comment.NewRepository(db), reviews),
	}
}

// # Migrations

func migrateCommand(cfg *config.Config, log *slog.Logger, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: migrate needs up, down or status", errUsage)
	}

	runner, err := migration.New(cfg.DatabaseURL, cfg.MigrationPath, log)
	if err != nil {
		return err
	}
	defer runner.Close()

	switch args[0] {
	case "up":
		return runner.Up()
	case "down":
		steps := 1
		if len(args) > 1 {
			if steps, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("%w: steps must be a number", errUsage)
			}
		}
		return runner.Down(steps)
	case "status":
		status, err := runner.Status()
		if err != nil {
			return err
		}
		if status.Empty {
			fmt.Fprintln(out, "no migrations applied")
			return nil
		}
		fmt.Fprintf(out, "version %d (dirty: %t)\n", status.Version, status.Dirty)
		return nil
	default:
		return fmt.Errorf("%w: unknown migrate action %q", errUsage, args[0])
	}
}

// # Accounts

func (app *app) createSuperuser(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	email := flags.String("email", "", "account email")
	username := flags.String("username", "", "account username")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *email == "" || *username == "" {
		return fmt.Errorf("%w: -email and -username are required", errUsage)
	}

	user := &account.User{
		Email:       strings.ToLower(strings.TrimSpace(*email)),
		Username:    *username,
		Role:        sec.RoleAdmin,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := app.accounts.Create(ctx, user); err != nil {
		return err
	}

	fmt.Fprintf(out, "superuser %s created with id %d\n", user.Username, user.ID)
	return nil
}

func (app *app) setRole(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("setrole", flag.ContinueOnError)
	email := flags.String("email", "", "account email")
	role := flags.String("role", "", "one of "+strings.Join(sec.RoleNames(), ", "))
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	userRole := sec.UserRole(*role)
	if *email == "" || !userRole.Valid() {
		return fmt.Errorf("%w: -email and a valid -role are required", errUsage)
	}

	user, err := app.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(*email)))
	if err != nil {
		return err
	}
	user.Role = userRole
	if err := app.accounts.Update(ctx, user); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s is now %s\n", user.Email, user.Role)
	return nil
}

// # Listing

// listOptions narrows a list command.
type listOptions struct {
	params   pagination.Params
	search   string
	titleID  int64
	reviewID int64
}

// table is a rendered listing.
type table struct {
	header []string
	rows   [][]string
	total  int
}

func parseListOptions(args []string) (listOptions, error) {
	flags := flag.NewFlagSet("list", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	limit := flags.Int("limit", pagination.DefaultLimit, "rows per page")
	page := flags.Int("page", 1, "page number")
	search := flags.String("search", "", "substring filter")
	titleID := flags.Int64("title", 0, "title id (reviews, comments)")
	reviewID := flags.Int64("review", 0, "review id (comments)")

	if err := flags.Parse(args); err != nil {
		return listOptions{}, fmt.Errorf("%w: %v", errUsage, err)
	}

	params := pagination.Params{Page: min(max(*page, 1), pagination.MaxPage), Limit: min(max(*limit, 1), pagination.MaxLimit)}
	return listOptions{params: params, search: *search, titleID: *titleID, reviewID: *reviewID}, nil
}

func (app *app) list(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: list needs a resource", errUsage)
	}

	options, err := parseListOptions(args[1:])
	if err != nil {
		return err
	}

	var result table
	switch args[0] {
	case "users":
		users, total, err := app.users.List(ctx, options.search, options.params)
		if err != nil {
			return err
		}
		result = usersTable(users, total)
	case "genres":
		terms, total, err := app.genres.List(ctx, options.search, options.params)
		if err != nil {
			return err
		}
		result = termsTable(terms, total)
	case "categories":
		terms, total, err := app.categories.List(ctx, options.search, options.params)
		if err != nil {
			return err
		}
		result = termsTable(terms, total)
	case "titles":
		titles, total, err := app.titles.List(ctx, title.Filter{Name: options.search}, options.params)
		if err != nil {
			return err
		}
		result = titlesTable(titles, total)
	case "reviews":
		reviews, total, err := app.reviews.List(ctx, options.titleID, options.params)
		if err != nil {
			return err
		}
		result = reviewsTable(reviews, total)
	case "comments":
		comments, total, err := app.comments.List(ctx, options.titleID, options.reviewID, options.params)
		if err != nil {
			return err
		}
		result = commentsTable(comments, total)
	default:
		return fmt.Errorf("%w: unknown resource %q", errUsage, args[0])
	}

	return render(out, result)
}

func usersTable(users []*account.User, total int) table {
	return table{
		header: []string{"ID", "USERNAME", "EMAIL", "ROLE", "JOINED"},
		rows: slice.Map(users, func(user *account.User) []string {
			return []string{id(user.ID), user.Username, user.Email, string(user.Role), user.DateJoined.Format(time.DateOnly)}
		}),
		total: total,
	}
}

func termsTable(terms []*reference.Term, total int) table {
	return table{
		header: []string{"SLUG", "NAME"},
		rows: slice.Map(terms, func(term *reference.Term) []string {
			return []string{term.Slug, term.Name}
		}),
		total: total,
	}
}

func titlesTable(titles []*title.Title, total int) table {
	return table{
		header: []string{"ID", "NAME", "YEAR", "CATEGORY", "RATING"},
		rows: slice.Map(titles, func(item *title.Title) []string {
			category, rating := "-", "-"
			if item.Category != nil {
				category = item.Category.Slug
			}
			if item.Rating != nil {
				rating = strconv.FormatFloat(*item.Rating, 'f', 1, 64)
			}
			return []string{id(item.ID), item.Name, strconv.Itoa(item.Year), category, rating}
		}),
		total: total,
	}
}

func reviewsTable(reviews []*review.Review, total int) table {
	return table{
		header: []string{"ID", "AUTHOR", "SCORE", "PUBLISHED", "TEXT"},
		rows: slice.Map(reviews, func(item *review.Review) []string {
			return []string{id(item.ID), item.Author, strconv.Itoa(item.Score), item.PubDate.Format(time.DateTime), excerpt(item.Text)}
		}),
		total: total,
	}
}

func commentsTable(comments []*comment.Comment, total int) table {
	return table{
		header: []string{"ID", "AUTHOR", "PUBLISHED", "TEXT"},
		rows: slice.Map(comments, func(item *comment.Comment) []string {
			return []string{id(item.ID), item.Author, item.PubDate.Format(time.DateTime), excerpt(item.Text)}
		}),
		total: total,
	}
}

// render writes a table with aligned columns followed by the total.
func render(out io.Writer, result table) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, strings.Join(result.header, "\t"))
	for _, row := range result.rows {
		fmt.Fprintln(writer, strings.Join(row, "\t"))
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "(%d of %d)\n", len(result.rows), result.total)
	return err
}

func id(value int64) string {
	return strconv.FormatInt(value, 10)
}

// excerpt shortens text to one line of at most 60 characters.
func excerpt(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	runes := []rune(line)
	if len(runes) > 60 {
		return string(runes[:57]) + "..."
	}
	return line
}
