// simulate играет одно прохождение сетки против запущенного сервера: забирает
// кандидатов, делает случайные выборы до финала и отправляет победителя так же,
// как это делает браузерный клиент. Ошибка отправки результата не фатальна —
// победитель всё равно печатается, как и в настоящем клиенте.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/mkcho/worldcup-backend/brackets"
	"github.com/mkcho/worldcup-backend/models"
	"github.com/mkcho/worldcup-backend/services"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	baseURL := flag.String("base-url", "http://localhost:8080", "server base URL")
	shortID := flag.String("id", "", "worldcup short id")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for the playthrough")
	flag.Parse()

	if *shortID == "" {
		fmt.Fprintln(os.Stderr, "usage: simulate -id <short id> [-base-url http://...] [-seed n]")
		os.Exit(2)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	payload, err := fetchGamePayload(client, *baseURL, *shortID)
	if err != nil {
		logger.Error("failed to fetch game payload", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("playing worldcup",
		slog.String("title", payload.Info.Title),
		slog.Int("candidates", len(payload.Images)),
	)

	rng := rand.New(rand.NewSource(*seed))
	engine, err := brackets.New(payload.Images, rng)
	if err != nil {
		logger.Error("cannot start bracket", slog.Any("error", err))
		os.Exit(1)
	}

	winner, picks, err := brackets.Run(engine, func(left, right models.Image) int {
		return rng.Intn(2)
	})
	if err != nil {
		logger.Error("bracket run failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("bracket complete", slog.Int("picks", picks), slog.String("winner", winner.Name))

	// Отправка результата — fire-and-forget: при неудаче победителя всё равно
	// показываем.
	if err := submitResult(client, *baseURL, *shortID, winner); err != nil {
		logger.Warn("failed to submit result, continuing anyway", slog.Any("error", err))
	}

	fmt.Printf("winner: %s (%s)\n", winner.Name, winner.ImageURL)
}

func fetchGamePayload(client *http.Client, baseURL, shortID string) (*services.GamePayload, error) {
	resp, err := client.Get(fmt.Sprintf("%s/public/worldcup/%s", baseURL, shortID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload services.GamePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode game payload: %w", err)
	}
	return &payload, nil
}

func submitResult(client *http.Client, baseURL, shortID string, winner models.Image) error {
	body, err := json.Marshal(services.SubmitResultInput{
		WinnerImageID: winner.ID.String(),
		WinnerName:    winner.Name,
	})
	if err != nil {
		return err
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/public/worldcup/%s/result", baseURL, shortID),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
