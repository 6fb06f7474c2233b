package redis

import (
	"context"
	"testing"
	"time"

	"quiznet/internal/domain"
	"quiznet/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		BankLoader: memory.NewStaticBankLoader(map[string]domain.Bank{
			"default": sampleBank(),
		}),
	}
	repo := NewBankRepository(client, loader, time.Minute)

	bank, err := repo.GetBank(context.Background(), "default")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(bank.Questions) != 1 || bank.Questions[0].Correct != 1 {
		t.Fatalf("unexpected bank %+v", bank)
	}
	if !mr.Exists("bank:default:data") {
		t.Fatalf("expected redis key to be set")
	}

	// Second call should hit cache, loader not incremented, content intact.
	bank, err = repo.GetBank(context.Background(), "default")
	if err != nil {
		t.Fatalf("get bank cached: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if got := bank.CorrectOption("Q0"); got != 1 {
		t.Fatalf("cached bank lost data, correct=%d", got)
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func sampleBank() domain.Bank {
	return domain.Bank{
		ID: "default",
		Questions: []domain.Question{
			{ID: "Q0", Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Correct: 1},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
