package controllers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"grievance-management-api/models"
	"grievance-management-api/services"
)

func TestPendingPriceCoversResolvedComplaints(t *testing.T) {
	// A deferred price stays pending after resolution until it is backfilled.
	assert.Contains(t, pendingPriceStatuses, models.StatusEEAcknowledged)
	assert.Contains(t, pendingPriceStatuses, models.StatusResolved)

	assert.NotContains(t, pendingPriceStatuses, models.StatusTerminated)
	assert.NotContains(t, pendingPriceStatuses, models.StatusRaised)
}

func TestGetEngineReturnsSharedInstance(t *testing.T) {
	engines := make([]*services.WorkflowEngine, 8)

	var wg sync.WaitGroup
	for i := range engines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engines[i] = getEngine()
		}(i)
	}
	wg.Wait()

	for _, engine := range engines {
		assert.Same(t, engines[0], engine)
	}
}
