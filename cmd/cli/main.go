package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/fundflow/fundflow/config"
	"github.com/fundflow/fundflow/infra/database"
	infrabus "github.com/fundflow/fundflow/infra/eventbus"
	infrarepo "github.com/fundflow/fundflow/infra/repository"
	"github.com/fundflow/fundflow/pkg/commands"
	handler "github.com/fundflow/fundflow/pkg/handler/donation"
	"github.com/google/uuid"
)

// parseID parses a command-line UUID argument, printing a usage-style
// error instead of panicking on malformed input.
func parseID(label, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		fmt.Printf("Invalid %s: %v\n", label, err)
		return uuid.Nil, false
	}
	return id, true
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  create <campaign_id> <amount> <currency>")
	fmt.Println("  process <donation_id> <transaction_id>")
	fmt.Println("  complete <donation_id>")
	fmt.Println("  fail <donation_id> <reason>")
	fmt.Println("  cancel <donation_id> [reason]")
	fmt.Println("  refund <donation_id> <reason> <employee_id>")
	fmt.Println("  status <donation_id> <status>")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	logger := slog.Default()
	cfg, err := config.LoadAppConfig(logger)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	db, err := database.New(cfg.DB.Url)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	bus, err := infrabus.NewWithRedis(cfg.Redis.URL, cfg.Redis.Stream, cfg.Redis.Group, logger)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	uow := infrarepo.NewUoW(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		if len(os.Args) < 5 {
			usage()
			return
		}
		amount, err := strconv.ParseFloat(os.Args[3], 64)
		if err != nil {
			fmt.Println("Invalid amount:", err)
			return
		}
		campaignID, ok := parseID("campaign id", os.Args[2])
		if !ok {
			return
		}
		h := handler.NewCreateHandler(uow, bus, logger)
		d, err := h.Handle(ctx, commands.CreateDonation{
			CampaignID:    campaignID,
			Amount:        amount,
			Currency:      os.Args[4],
			PaymentMethod: "cli",
		})
		if err != nil {
			fmt.Println("Error creating donation:", err)
			return
		}
		fmt.Printf("Donation created: ID=%s, Amount=%s, Status=%s\n", d.ID, d.Amount, d.Status)
	case "process":
		if len(os.Args) < 4 {
			usage()
			return
		}
		donationID, ok := parseID("donation id", os.Args[2])
		if !ok {
			return
		}
		h := handler.NewProcessHandler(uow, bus, logger)
		d, err := h.Handle(ctx, commands.ProcessDonation{
			DonationID:    donationID,
			TransactionID: os.Args[3],
		})
		if err != nil {
			fmt.Println("Error processing donation:", err)
			return
		}
		fmt.Printf("Donation processing: ID=%s, Transaction=%s\n", d.ID, d.ExternalTransactionID)
	case "complete":
		if len(os.Args) < 3 {
			usage()
			return
		}
		donationID, ok := parseID("donation id", os.Args[2])
		if !ok {
			return
		}
		h := handler.NewCompleteHandler(uow, bus, logger)
		d, err := h.Handle(ctx, commands.CompleteDonation{
			DonationID: donationID,
		})
		if err != nil {
			fmt.Println("Error completing donation:", err)
			return
		}
		fmt.Printf("Donation completed: ID=%s, Amount=%s\n", d.ID, d.Amount)
	case "fail":
		if len(os.Args) < 4 {
			usage()
			return
		}
		donationID, ok := parseID("donation id", os.Args[2])
		if !ok {
			return
		}
		h := handler.NewFailHandler(uow, bus, logger)
		d, err := h.Handle(ctx, commands.FailDonation{
			DonationID:    donationID,
			FailureReason: os.Args[3],
		})
		if err != nil {
			fmt.Println("Error failing donation:", err)
			return
		}
		fmt.Printf("Donation failed: ID=%s, Reason=%s\n", d.ID, d.FailureReason)
	case "cancel":
		if len(os.Args) < 3 {
			usage()
			return
		}
		reason := ""
		if len(os.Args) > 3 {
			reason = os.Args[3]
		}
		donationID, ok := parseID("donation id", os.Args[2])
		if !ok {
			return
		}
		h := handler.NewCancelHandler(uow, bus, logger)
		d, err := h.Handle(ctx, commands.CancelDonation{
			DonationID: donationID,
			Reason:     reason,
		})
		if err != nil {
			fmt.Println("Error cancelling donation:", err)
			return
		}
		fmt.Printf("Donation cancelled: ID=%s\n", d.ID)
	case "refund":
		if len(os.Args) < 5 {
			usage()
			return
		}
		donationID, ok := parseID("donation id", os.Args[2])
		if !ok {
			return
		}
		employeeID, ok := parseID("employee id", os.Args[4])
		if !ok {
			return
		}
		h := handler.NewRefundHandler(uow, bus, logger)
		d, err := h.Handle(ctx, commands.RefundDonation{
			DonationID:            donationID,
			RefundReason:          os.Args[3],
			ProcessedByEmployeeID: employeeID,
		})
		if err != nil {
			fmt.Println("Error refunding donation:", err)
			return
		}
		fmt.Printf("Donation refunded: ID=%s, Amount=%s\n", d.ID, d.Amount)
	case "status":
		if len(os.Args) < 4 {
			usage()
			return
		}
		donationID, ok := parseID("donation id", os.Args[2])
		if !ok {
			return
		}
		h := handler.NewUpdateStatusHandler(uow, bus, logger)
		d, err := h.Handle(ctx, commands.UpdatePaymentStatus{
			DonationID: donationID,
			Status:     os.Args[3],
		})
		if err != nil {
			fmt.Println("Error updating status:", err)
			return
		}
		fmt.Printf("Donation status updated: ID=%s, Status=%s\n", d.ID, d.Status)
	default:
		usage()
	}
}
