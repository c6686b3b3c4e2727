// Package brackets реализует редукцию single elimination для фиксированной
// сетки из 32 кандидатов: посев случайной перестановкой, пары (2i, 2i+1),
// победитель пары переходит в следующий раунд, раунды делятся пополам до
// финала. Движок детерминирован при фиксированном rand.Source, но каждое
// прохождение обычно сеется заново — одинаковый победитель не гарантируется.
package brackets

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mkcho/worldcup-backend/models"
)

// SlotCount — размер сетки. Ровно 32 кандидата попадают в первый раунд,
// поэтому турнир обязан содержать минимум 32 картинки.
const SlotCount = 32

var (
	ErrInsufficientCandidates = errors.New("not enough candidates for a 32-slot bracket")
	ErrAlreadyComplete        = errors.New("bracket already complete")
	ErrInvalidSide            = errors.New("pick side must be 0 or 1")
)

// Engine — состояние одного прохождения сетки. Не потокобезопасен: одно
// прохождение принадлежит одному игроку.
type Engine struct {
	roundSize int
	pairIndex int
	current   []models.Image
	next      []models.Image
	winner    *models.Image
}

// New сеет сетку: кандидаты перемешиваются равномерно и первые SlotCount
// становятся первым раундом. При len(candidates) < SlotCount движок не
// стартует.
func New(candidates []models.Image, rng *rand.Rand) (*Engine, error) {
	if len(candidates) < SlotCount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientCandidates, len(candidates), SlotCount)
	}

	seeded := make([]models.Image, len(candidates))
	copy(seeded, candidates)
	rng.Shuffle(len(seeded), func(i, j int) {
		seeded[i], seeded[j] = seeded[j], seeded[i]
	})

	return &Engine{
		roundSize: SlotCount,
		current:   seeded[:SlotCount],
		next:      make([]models.Image, 0, SlotCount/2),
	}, nil
}

// RoundSize — размер текущего раунда (32, 16, 8, 4, 2). После завершения
// возвращает 0.
func (e *Engine) RoundSize() int {
	if e.Complete() {
		return 0
	}
	return e.roundSize
}

// PairIndex — номер текущей пары внутри раунда, с нуля.
func (e *Engine) PairIndex() int {
	return e.pairIndex
}

func (e *Engine) Complete() bool {
	return e.winner != nil
}

// Winner возвращает победителя после завершения сетки.
func (e *Engine) Winner() (models.Image, bool) {
	if e.winner == nil {
		return models.Image{}, false
	}
	return *e.winner, true
}

// CurrentPair — пара кандидатов текущего матча.
func (e *Engine) CurrentPair() (left, right models.Image, err error) {
	if e.Complete() {
		return models.Image{}, models.Image{}, ErrAlreadyComplete
	}
	left = e.current[e.pairIndex*2]
	right = e.current[e.pairIndex*2+1]
	return left, right, nil
}

// Pick фиксирует выбор в текущей паре: side 0 — левый, 1 — правый.
// Выбранный кандидат уходит в следующий раунд; последний выбор финала
// становится победителем турнира.
func (e *Engine) Pick(side int) error {
	if e.Complete() {
		return ErrAlreadyComplete
	}
	if side != 0 && side != 1 {
		return ErrInvalidSide
	}

	picked := e.current[e.pairIndex*2+side]
	e.next = append(e.next, picked)

	pairsInRound := e.roundSize / 2
	if e.pairIndex+1 < pairsInRound {
		e.pairIndex++
		return nil
	}

	// Последняя пара раунда.
	if e.roundSize == 2 {
		e.winner = &picked
		return nil
	}

	e.roundSize /= 2
	e.current = e.next
	e.next = make([]models.Image, 0, e.roundSize/2)
	e.pairIndex = 0
	return nil
}

// Run прогоняет сетку до конца, вызывая pick для каждой пары. pick обязан
// вернуть 0 или 1. Возвращает победителя и количество сделанных выборов.
func Run(e *Engine, pick func(left, right models.Image) int) (models.Image, int, error) {
	picks := 0
	for !e.Complete() {
		left, right, err := e.CurrentPair()
		if err != nil {
			return models.Image{}, picks, err
		}
		if err := e.Pick(pick(left, right)); err != nil {
			return models.Image{}, picks, err
		}
		picks++
	}
	winner, _ := e.Winner()
	return winner, picks, nil
}
