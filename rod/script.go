package rod

// captureScript runs inside the tab. It may only use its arguments and the
// page's own globals; the popup context shares nothing else with it.
//
// It performs a bounded number of scroll-and-wait cycles so lazily loaded
// sections render, scrolls back to the top, and returns one snapshot.
const captureScript = `async (cycles, delayMs) => {
	const sleep = (ms) => new Promise((resolve) => setTimeout(resolve, ms));
	for (let i = 0; i < cycles; i++) {
		const height = document.body ? document.body.scrollHeight : 0;
		window.scrollTo(0, height);
		await sleep(delayMs);
	}
	window.scrollTo(0, 0);
	return {
		url: window.location.href,
		title: document.title,
		html: document.documentElement.outerHTML,
	};
}`

// visibleScript reports whether the tab is the one in front of the user.
const visibleScript = `() => document.visibilityState === 'visible'`
