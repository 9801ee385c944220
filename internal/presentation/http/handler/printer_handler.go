package handler

import (
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/service"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a sample slip to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	slip, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		// the slip is still useful when no printer is attached
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"slip":    slip,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{"slip": slip})
}
