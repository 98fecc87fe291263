package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"petcare-store/config"
	"petcare-store/internal/client"
	"petcare-store/internal/lifecycle"
	"petcare-store/internal/models"
	"petcare-store/internal/util"

	"github.com/shopspring/decimal"
)

const usage = `usage: petcare <command> [flags]

commands:
  products [-category c]             list the catalog
  quote -pincode p -weight w -value v
                                     price shipping to a pincode
  checkout -file draft.json          place an order
  orders                             list tracked orders, newest first
  status -id ID                      show an order's progress
  advance -id ID [-message m]        move an order to its next stage
  cancel -id ID [-message m]         cancel an order
`

func main() {
	cfg := config.LoadClient()
	if err := util.InitLogger("development", cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer util.SyncLogger()

	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "petcare:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.ClientConfig, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	api := client.NewClient(cfg.APIURL, cfg.Timeout)

	switch cmd {
	case "products":
		return listProducts(ctx, api, rest, out)
	case "quote":
		return quote(ctx, api, rest, out)
	case "checkout", "orders", "status", "advance", "cancel":
		tracker, err := openTracker(ctx, cfg)
		if err != nil {
			return err
		}
		switch cmd {
		case "checkout":
			return checkout(ctx, client.NewCheckout(api, tracker, cfg.UserID), rest, out)
		case "orders":
			return listOrders(tracker, out)
		case "status":
			return status(tracker, rest, out)
		case "advance":
			return advance(ctx, tracker, rest, out)
		default:
			return cancel(ctx, tracker, rest, out)
		}
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func openTracker(ctx context.Context, cfg config.ClientConfig) (*lifecycle.Tracker, error) {
	path := cfg.OrdersFile
	if path == "" {
		var err error
		if path, err = lifecycle.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return lifecycle.NewTracker(ctx, lifecycle.NewFileStore(path))
}

func listProducts(ctx context.Context, api *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.String("category", "", "only list this category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := api.ListProducts(ctx, models.Category(*category))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Stock)
	}
	return tw.Flush()
}

func quote(ctx context.Context, api *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	pincode := fs.String("pincode", "", "6-digit delivery pincode")
	weight := fs.String("weight", "0", "parcel weight in kg")
	value := fs.String("value", "0", "order value in rupees")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := decimal.NewFromString(*weight)
	if err != nil {
		return fmt.Errorf("invalid -weight: %w", err)
	}
	v, err := decimal.NewFromString(*value)
	if err != nil {
		return fmt.Errorf("invalid -value: %w", err)
	}

	q, err := api.QuoteShipping(ctx, *pincode, w, v)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Zone:      %s (%s)\n", q.Zone, q.ZoneType)
	fmt.Fprintf(out, "Cost:      ₹%s\n", q.Cost.StringFixed(2))
	fmt.Fprintf(out, "Delivery:  %d-%d days\n", q.EstimatedDays.Min, q.EstimatedDays.Max)
	if q.FreeShipping {
		fmt.Fprintln(out, "Free shipping applies")
	}
	return nil
}

func checkout(ctx context.Context, c *client.Checkout, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	file := fs.String("file", "", "draft order JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("checkout needs -file")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	var draft lifecycle.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return fmt.Errorf("invalid draft %s: %w", *file, err)
	}

	order, err := c.PlaceOrder(ctx, draft)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Order %s\n", order.ID)
	fmt.Fprintln(out, order.StatusHistory[0].Message)
	return nil
}

func listOrders(tracker *lifecycle.Tracker, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTOTAL\tPLACED")
	for _, o := range tracker.List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.ID, o.Status.Label(), o.Pricing.Total.StringFixed(2), o.CreatedAt.Local().Format(time.RFC822))
	}
	return tw.Flush()
}

func orderFlags(name string, args []string) (id, message string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	idFlag := fs.String("id", "", "order id")
	msgFlag := fs.String("message", "", "history message")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if *idFlag == "" {
		return "", "", fmt.Errorf("%s needs -id", name)
	}
	return *idFlag, *msgFlag, nil
}

func status(tracker *lifecycle.Tracker, args []string, out io.Writer) error {
	id, _, err := orderFlags("status", args)
	if err != nil {
		return err
	}
	order, err := tracker.Get(id)
	if err != nil {
		return err
	}

	info := lifecycle.InfoFor(order.Status)
	fmt.Fprintf(out, "%s %s\n%s\n\n", info.Icon, info.Title, info.Description)
	writeProgress(out, order)
	fmt.Fprintln(out)
	for _, h := range order.StatusHistory {
		fmt.Fprintf(out, "  %s  %-16s %s\n", h.Timestamp.Local().Format(time.RFC822), h.Status.Label(), h.Message)
	}
	return nil
}

// writeProgress prints one line per timeline stage with the time the order
// reached it. Stages a cancelled order never got to are left out.
func writeProgress(out io.Writer, order *lifecycle.Order) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, st := range lifecycle.Timeline() {
		at, ok := order.ReachedAt(st)
		switch {
		case ok:
			fmt.Fprintf(w, "  [x]\t%s\t%s\n", st.Label(), at.Local().Format(time.RFC822))
		case order.Status != lifecycle.StatusCancelled:
			fmt.Fprintf(w, "  [ ]\t%s\tpending\n", st.Label())
		}
	}
	if at, ok := order.ReachedAt(lifecycle.StatusCancelled); ok {
		fmt.Fprintf(w, "  [-]\t%s\t%s\n", lifecycle.StatusCancelled.Label(), at.Local().Format(time.RFC822))
	}
	w.Flush()
}

func advance(ctx context.Context, tracker *lifecycle.Tracker, args []string, out io.Writer) error {
	id, message, err := orderFlags("advance", args)
	if err != nil {
		return err
	}
	order, moved, err := tracker.Advance(ctx, id, message)
	if err != nil {
		return err
	}
	if !moved {
		fmt.Fprintf(out, "Order %s is %s, no further stage\n", order.ID, order.Status.Label())
		return nil
	}
	fmt.Fprintf(out, "Order %s is now %s\n", order.ID, order.Status.Label())
	return nil
}

func cancel(ctx context.Context, tracker *lifecycle.Tracker, args []string, out io.Writer) error {
	id, message, err := orderFlags("cancel", args)
	if err != nil {
		return err
	}
	order, err := tracker.Cancel(ctx, id, message)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Order %s cancelled\n", order.ID)
	return nil
}
