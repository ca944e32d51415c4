// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// WorldMetric groups the OpenTelemetry instruments describing a World.
//
// Instruments:
//   - world.actors.count       live actors registered in the directory
//   - world.deadletters.count  messages that could not be delivered
//   - world.restarts.count     actor restarts decided by supervision
//   - world.stops.count        actors stopped since the world started
//   - world.rejections.count   dispatches refused by a saturated dispatcher
type WorldMetric struct {
	actorsCount      metric.Int64ObservableCounter
	deadlettersCount metric.Int64ObservableCounter
	restartsCount    metric.Int64ObservableCounter
	stopsCount       metric.Int64ObservableCounter
	rejectionsCount  metric.Int64ObservableCounter
}

// NewWorldMetric creates the world instruments using the provided Meter.
func NewWorldMetric(meter metric.Meter) (*WorldMetric, error) {
	var instruments WorldMetric
	var err error

	if instruments.actorsCount, err = meter.Int64ObservableCounter(
		"world.actors.count",
		metric.WithDescription("Total number of live actors in the world"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actorsCount instrument, %w", err)
	}

	if instruments.deadlettersCount, err = meter.Int64ObservableCounter(
		"world.deadletters.count",
		metric.WithDescription("Total number of dead letters in the world"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadlettersCount instrument, %w", err)
	}

	if instruments.restartsCount, err = meter.Int64ObservableCounter(
		"world.restarts.count",
		metric.WithDescription("Total number of actor restarts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create restartsCount instrument, %w", err)
	}

	if instruments.stopsCount, err = meter.Int64ObservableCounter(
		"world.stops.count",
		metric.WithDescription("Total number of stopped actors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create stopsCount instrument, %w", err)
	}

	if instruments.rejectionsCount, err = meter.Int64ObservableCounter(
		"world.rejections.count",
		metric.WithDescription("Total number of dispatches rejected by a saturated dispatcher"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rejectionsCount instrument, %w", err)
	}

	return &instruments, nil
}

// ActorsCount returns the live actors counter
func (x *WorldMetric) ActorsCount() metric.Int64ObservableCounter {
	return x.actorsCount
}

// DeadlettersCount returns the dead letters counter
func (x *WorldMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return x.deadlettersCount
}

// RestartsCount returns the restarts counter
func (x *WorldMetric) RestartsCount() metric.Int64ObservableCounter {
	return x.restartsCount
}

// StopsCount returns the stopped actors counter
func (x *WorldMetric) StopsCount() metric.Int64ObservableCounter {
	return x.stopsCount
}

// RejectionsCount returns the dispatcher rejections counter
func (x *WorldMetric) RejectionsCount() metric.Int64ObservableCounter {
	return x.rejectionsCount
}

// Instruments returns every instrument, for callback registration
func (x *WorldMetric) Instruments() []metric.Observable {
	return []metric.Observable{
		x.actorsCount,
		x.deadlettersCount,
		x.restartsCount,
		x.stopsCount,
		x.rejectionsCount,
	}
}
