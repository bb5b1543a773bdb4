// Package worker provides a worker pool for parallel batch validation.
//
// The worker pool validates many instances against one bound schema,
// taking advantage of multi-core processors. A bound *engine.Schema is
// safe for concurrent use and implements Validator.
//
// Example usage:
//
//	// Create a worker pool with 4 workers
//	pool := worker.NewPool(schema, 4)
//
//	// Submit jobs
//	for _, instance := range instances {
//	    if _, err := pool.Submit(worker.NewJob(instance)); err != nil {
//	        // Pool closed
//	    }
//	}
//
//	// Collect results
//	batch := pool.CloseAndWait()
//	for _, result := range batch.Results {
//	    if result.Error != nil {
//	        // Processing error
//	    }
//	    // Inspect result.Report
//	}
//
// For a fixed slice of instances, BatchValidator returns results in input order.
package worker
