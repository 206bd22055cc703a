// Package activity builds a peak-hour report over a conversation's message
// timestamps using a binary search tree keyed by hour of day.
package activity

import (
	"fmt"
	"time"
)

type node struct {
	hour  int
	count int
	left  *node
	right *node
}

// BST counts message activity per hour of day.
type BST struct {
	root *node
}

// Insert records one message at the given timestamp
func (t *BST) Insert(ts time.Time) {
	hour := ts.Hour()
	if t.root == nil {
		t.root = &node{hour: hour, count: 1}
		return
	}
	insert(t.root, hour)
}

func insert(n *node, hour int) {
	switch {
	case hour == n.hour:
		n.count++
	case hour < n.hour:
		if n.left == nil {
			n.left = &node{hour: hour, count: 1}
		} else {
			insert(n.left, hour)
		}
	default:
		if n.right == nil {
			n.right = &node{hour: hour, count: 1}
		} else {
			insert(n.right, hour)
		}
	}
}

// Peak returns the busiest hour and its message count via in-order
// traversal. The earliest hour wins ties.
func (t *BST) Peak() (hour, count int) {
	walk(t.root, &hour, &count)
	return
}

func walk(n *node, hour, count *int) {
	if n == nil {
		return
	}
	walk(n.left, hour, count)
	if n.count > *count {
		*hour = n.hour
		*count = n.count
	}
	walk(n.right, hour, count)
}

// Report summarizes when a conversation is most active.
type Report struct {
	PeakTime      string  `json:"peakTime"`
	MessageCount  int     `json:"messageCount"`
	TotalAnalyzed int     `json:"totalAnalyzed"`
	Percentage    float64 `json:"percentage"`
}

// BuildReport computes the peak-hour report for a set of message
// timestamps. Returns nil when there is nothing to analyze.
func BuildReport(timestamps []time.Time) *Report {
	if len(timestamps) == 0 {
		return nil
	}

	tree := &BST{}
	for _, ts := range timestamps {
		tree.Insert(ts)
	}

	hour, count := tree.Peak()
	pct := float64(count) / float64(len(timestamps)) * 100
	return &Report{
		PeakTime:      FormatHour(hour),
		MessageCount:  count,
		TotalAnalyzed: len(timestamps),
		Percentage:    float64(int(pct*10+0.5)) / 10, // one decimal place
	}
}

// FormatHour renders an hour of day as "02:00 PM"
func FormatHour(h int) string {
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%02d:00 %s", display, suffix)
}
