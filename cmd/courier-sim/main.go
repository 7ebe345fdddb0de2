package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// courier-sim прогоняет текущий заказ по жизненному циклу через REST API,
// имитируя обновления статуса от курьерской стороны.

var statusChain = []string{"cooking", "on_the_way", "delivered"}

type currentOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func main() {
	var (
		baseURL  string
		interval time.Duration
	)

	flag.StringVar(&baseURL, "addr", "http://localhost:8080", "base URL of the foodstream API")
	flag.DurationVar(&interval, "interval", 5*time.Second, "delay between status transitions")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	order, err := fetchCurrentOrder(client, baseURL)
	if err != nil {
		fail("fetch current order: %v", err)
	}
	fmt.Printf("current order: %s (status=%s)\n", order.ID, order.Status)

	for _, status := range statusChain {
		if !shouldApply(order.Status, status) {
			continue
		}

		time.Sleep(interval)
		updated, err := updateStatus(client, baseURL, order.ID, status)
		if err != nil {
			fail("update status to %s: %v", status, err)
		}
		fmt.Printf("order %s → %s\n", updated.ID, updated.Status)
		order = updated
	}

	fmt.Println("delivery simulation complete")
}

// shouldApply пропускает статусы, которые заказ уже прошёл.
func shouldApply(current, target string) bool {
	rank := map[string]int{"accepted": 0, "cooking": 1, "on_the_way": 2, "delivered": 3}
	cur, ok := rank[current]
	if !ok {
		return false
	}
	return rank[target] > cur
}

func fetchCurrentOrder(client *http.Client, baseURL string) (currentOrder, error) {
	resp, err := client.Get(baseURL + "/api/v1/orders/current")
	if err != nil {
		return currentOrder{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return currentOrder{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var order currentOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return currentOrder{}, err
	}
	return order, nil
}

func updateStatus(client *http.Client, baseURL, orderID, status string) (currentOrder, error) {
	payload, _ := json.Marshal(map[string]string{"status": status})
	req, err := http.NewRequest(http.MethodPatch, baseURL+"/api/v1/orders/"+orderID+"/status", bytes.NewReader(payload))
	if err != nil {
		return currentOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return currentOrder{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return currentOrder{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var order currentOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return currentOrder{}, err
	}
	return order, nil
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
