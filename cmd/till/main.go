package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/orderapi"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/tui"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/logger"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	orderID := flag.String("order", "", "order to check out")
	restaurantID := flag.String("restaurant", os.Getenv("TILL_RESTAURANT_ID"), "restaurant the till belongs to")
	totalDue := flag.String("total", "", "fallback total due when the order service returns no totals")
	paid := flag.String("paid", "", "fallback amount already paid")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	if strings.TrimSpace(*orderID) == "" {
		fmt.Fprintln(os.Stderr, "usage: till -order <id> [-restaurant <id>] [-total 23.50 -paid 0]")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	// the terminal belongs to the dialog
	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	var fallback *entity.Totals
	if total, ok := money.ParseString(*totalDue); ok {
		p, _ := money.ParseString(*paid)
		fallback = &entity.Totals{TotalDue: total, PaidAmount: p}
	}

	client := orderapi.NewClient(cfg.OrderAPI, log)
	backend := tui.NewOrderServiceBackend(client, *restaurantID, fallback)

	p := tea.NewProgram(tui.NewModel(backend, *restaurantID, *orderID, cfg.Printer.StoreName))
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
