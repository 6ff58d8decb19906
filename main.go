package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/easytrans/easytrans-go/pkg/easytrans"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "easytrans",
	Short:   "EasyTrans TMS command line client",
	Version: version,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Work with transport orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders from the REST API",
	RunE:  runOrdersList,
}

var ordersGetCmd = &cobra.Command{
	Use:   "get <orderno>",
	Short: "Fetch a single order by order number",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersGet,
}

var ordersImportCmd = &cobra.Command{
	Use:   "import <orders.json>",
	Short: "Import orders from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersImport,
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Work with customers",
}

var customersImportCmd = &cobra.Command{
	Use:   "import <customers.json>",
	Short: "Import customers from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomersImport,
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List available products",
	RunE:  runProducts,
}

var webhookCmd = &cobra.Command{
	Use:   "webhook <payload.json>",
	Short: "Decode a status webhook payload (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhook,
}

var (
	flagStatus  string
	flagSort    string
	flagPage    int
	flagAll     bool
	flagEffect  bool
	flagName    string
	flagDeleted bool
)

func init() {
	ordersListCmd.Flags().StringVar(&flagStatus, "status", "", "filter on order status")
	ordersListCmd.Flags().StringVar(&flagSort, "sort", "", "sort field, prefix with - for descending")
	ordersListCmd.Flags().IntVar(&flagPage, "page", 0, "fetch a single page")
	ordersListCmd.Flags().BoolVar(&flagAll, "all", false, "follow pagination and print every order")

	ordersImportCmd.Flags().BoolVar(&flagEffect, "effect", false, "really create the orders instead of a test run")
	customersImportCmd.Flags().BoolVar(&flagEffect, "effect", false, "really create the customers instead of a test run")

	productsCmd.Flags().StringVar(&flagName, "name", "", "filter on product name")
	productsCmd.Flags().BoolVar(&flagDeleted, "deleted", false, "include deleted products")

	ordersCmd.AddCommand(ordersListCmd, ordersGetCmd, ordersImportCmd)
	customersCmd.AddCommand(customersImportCmd)
	rootCmd.AddCommand(ordersCmd, customersCmd, productsCmd, webhookCmd)
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, logger, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()
	defer logger.Sync()

	opts := easytrans.ListOrdersOptions{Sort: flagSort, Page: flagPage}
	if flagStatus != "" {
		opts.Filter = easytrans.Filter{"status": flagStatus}
	}

	if flagAll {
		var orders []easytrans.RestOrder
		for order, err := range client.IterOrders(ctx, opts) {
			if err != nil {
				return err
			}
			orders = append(orders, order)
		}
		return printJSON(orders)
	}

	page, err := client.GetOrders(ctx, opts)
	if err != nil {
		return err
	}
	return printJSON(page)
}

func runOrdersGet(cmd *cobra.Command, args []string) error {
	orderNo, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid order number %q", args[0])
	}

	client, logger, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()
	defer logger.Sync()

	order, err := client.GetOrder(cmd.Context(), orderNo, easytrans.OrderIncludes{
		Customer:     true,
		TrackHistory: true,
	})
	if err != nil {
		return err
	}
	return printJSON(order)
}

func runOrdersImport(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	var orders []easytrans.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	client, logger, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()
	defer logger.Sync()

	result, err := client.ImportOrders(cmd.Context(), orders, importOptions())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runCustomersImport(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	var customers []easytrans.Customer
	if err := json.Unmarshal(data, &customers); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	client, logger, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()
	defer logger.Sync()

	result, err := client.ImportCustomers(cmd.Context(), customers, importOptions())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runProducts(cmd *cobra.Command, args []string) error {
	client, logger, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()
	defer logger.Sync()

	page, err := client.GetProducts(cmd.Context(), easytrans.ListReferenceOptions{
		FilterName:     flagName,
		IncludeDeleted: flagDeleted,
	})
	if err != nil {
		return err
	}
	return printJSON(page.Data)
}

func runWebhook(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	payload, err := easytrans.ParseWebhook(data)
	if err != nil {
		return err
	}
	return printJSON(payload)
}

func importOptions() easytrans.ImportOptions {
	opts := easytrans.ImportOptions{}
	if flagEffect {
		opts.Mode = easytrans.ModeEffect
	}
	return opts
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
