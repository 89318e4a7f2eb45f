package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay waits for a random duration between min and max milliseconds
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := rand.Intn(max-min+1) + min
	time.Sleep(time.Duration(duration) * time.Millisecond)
}

// HumanScroll walks the page down in uneven steps so lazy-loaded job cards
// render, then ends at the bottom of the document.
func HumanScroll(page playwright.Page) error {
	for i := 0; i < 5; i++ {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return err
		}
		RandomDelay(300, 900)
	}
	//small correction up, like a person overshooting
	if _, err := page.Evaluate("window.scrollBy(0, -200)"); err != nil {
		return err
	}
	RandomDelay(200, 500)
	_, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}
