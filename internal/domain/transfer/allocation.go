// internal/domain/transfer/allocation.go
package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
)

// Previewer simulates how a transfer's requested quantities would be satisfied
// from the source branch's batches under the FEFO policy. It is read-only:
// previews never touch backend state and recomputing one is idempotent as long
// as the backend's batch data is unchanged.
type Previewer struct {
	client      *backend.Client
	safetyFloor int
	logger      *logrus.Logger
}

// NewPreviewer creates an allocation previewer
func NewPreviewer(client *backend.Client, cfg *config.Config, logger *logrus.Logger) *Previewer {
	return &Previewer{
		client:      client,
		safetyFloor: cfg.Transfer.SafetyFloor,
		logger:      logger,
	}
}

// Preview computes the FEFO allocation for every item of the request. Items
// are independent (each product's batches are disjoint), so their batch
// lookups run concurrently; batches within an item are consumed strictly in
// the backend's ascending-expiry order.
func (p *Previewer) Preview(ctx context.Context, req *Request) *Preview {
	preview := &Preview{
		TransferID:  req.ID,
		Code:        req.Code,
		GeneratedAt: time.Now().UTC(),
		Items:       make([]ItemPreview, len(req.Items)),
	}

	var wg sync.WaitGroup
	for i, item := range req.Items {
		wg.Add(1)
		go func(i int, item Item) {
			defer wg.Done()
			preview.Items[i] = p.previewItem(ctx, req.SourceBranchID, item)
		}(i, item)
	}
	wg.Wait()

	return preview
}

// previewItem allocates one item against its batch list. A failed batch fetch
// degrades this item to full shortage without aborting the rest of the
// preview.
func (p *Previewer) previewItem(ctx context.Context, sourceBranchID uint, item Item) ItemPreview {
	result := ItemPreview{
		Item:       item,
		MissingQty: item.RequestedQty,
		Batches:    []BatchAllocation{},
	}

	batches, err := p.client.FEFOBatches(ctx, sourceBranchID, item.ProductID)
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"branch_id":  sourceBranchID,
			"product_id": item.ProductID,
		}).WithError(err).Warn("Batch lookup failed, item degrades to full shortage")
		result.FetchFailed = true
		return result
	}

	remaining := item.RequestedQty
	allocated := 0

	for _, batch := range batches {
		transferable := batch.Available() - p.safetyFloor
		if transferable < 0 {
			transferable = 0
		}

		take := 0
		if remaining > 0 && transferable > 0 {
			take = transferable
			if remaining < take {
				take = remaining
			}
			remaining -= take
			allocated += take
		}

		// Every batch stays in the response, zero-take ones included, so the
		// operator sees the full stock picture at the source branch.
		result.Batches = append(result.Batches, BatchAllocation{
			BatchID:      batch.ID,
			BatchCode:    batch.BatchCode,
			ExpiryDate:   batch.ExpiryDate,
			Transferable: transferable,
			TakeQty:      take,
		})
	}

	result.AllocatedQty = allocated
	result.MissingQty = item.RequestedQty - allocated
	return result
}
