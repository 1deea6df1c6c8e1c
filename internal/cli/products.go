package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// NewProductsCmd creates the "products" command group.
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	cmd.AddCommand(
		newProductsListCmd(),
		newProductsGetCmd(),
		newProductsReviewsCmd(),
		newProductsReviewCmd(),
	)

	return cmd
}

func newProductsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			size, _ := cmd.Flags().GetString("size")
			search, _ := cmd.Flags().GetString("search")
			limit, _ := cmd.Flags().GetInt("limit")
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				products, err := app.Catalog.ListProducts(ctx, domain.ProductFilters{
					Category: category,
					Size:     size,
					Search:   search,
					Limit:    limit,
				})
				if err != nil {
					return err
				}
				if len(products) == 0 {
					fmt.Fprintln(out, "No products found.")
					return nil
				}
				for _, product := range products {
					fmt.Fprintf(out, "#%-4d %-30s %s\n", product.ID, product.Name, product.BasePrice)
				}
				return nil
			})
		},
	}

	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().String("size", "", "Filter by available size")
	cmd.Flags().String("search", "", "Search by name")
	cmd.Flags().Int("limit", 0, "Maximum number of results")

	return cmd
}

func newProductsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show a product with its variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				product, err := app.Catalog.GetProduct(ctx, productID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s  (%s)\n", product.Name, product.BasePrice, product.Category)
				if product.Description != nil {
					fmt.Fprintln(out, *product.Description)
				}
				for _, variant := range product.Variants {
					fmt.Fprintf(out, "  #%-4d %s  %s/%s  stock %d\n",
						variant.ID, variant.SKU,
						derefOr(variant.Size, "-"), derefOr(variant.ColorName, "-"),
						variant.StockQuantity)
				}
				return nil
			})
		},
	}
}

func newProductsReviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <product-id>",
		Short: "Show approved reviews for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				reviews, err := app.Catalog.GetReviews(ctx, productID)
				if err != nil {
					return err
				}
				if len(reviews) == 0 {
					fmt.Fprintln(out, "No reviews yet.")
					return nil
				}
				for _, review := range reviews {
					fmt.Fprintf(out, "[%d/5] %s: %s\n",
						review.Rating, derefOr(review.Title, "(untitled)"), derefOr(review.Body, ""))
				}
				return nil
			})
		},
	}
}

func newProductsReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <product-id> <rating>",
		Short: "Submit a review for a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}
			title, _ := cmd.Flags().GetString("title")
			body, _ := cmd.Flags().GetString("body")
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				input := domain.ReviewInput{Rating: rating}
				if title != "" {
					input.Title = &title
				}
				if body != "" {
					input.Body = &body
				}
				res := app.Catalog.SubmitReview(ctx, productID, input)
				if !res.Success {
					return resultError(res)
				}
				fmt.Fprintln(out, res.Message)
				return nil
			})
		},
	}

	cmd.Flags().String("title", "", "Review title")
	cmd.Flags().String("body", "", "Review text")

	return cmd
}
