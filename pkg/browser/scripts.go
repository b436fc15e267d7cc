package browser

// FindMarker is the attribute FindByText stamps on ranked candidates.
const FindMarker = "data-webpilot-find-id"

// overviewScript collects visible interactive elements that carry a label.
const overviewScript = `() => {
	const selectors = [
		'button', 'a', 'input', 'select', 'textarea',
		'[role="button"]', '[role="link"]', '[role="textbox"]',
		'[role="searchbox"]', '[role="combobox"]', '[role="checkbox"]',
		'[role="radio"]', '[role="menuitem"]', '[role="tab"]',
		'h1', 'h2', 'h3', 'h4', 'h5', 'h6'
	];
	const out = [];
	document.querySelectorAll(selectors.join(', ')).forEach(el => {
		const label = el.innerText || el.textContent || el.value || el.placeholder || el.getAttribute('aria-label') || '';
		if (!label.trim()) return;
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden' || rect.width <= 0 || rect.height <= 0) return;
		out.push({
			tag: el.tagName.toLowerCase(),
			type: (el.getAttribute('type') || '').toLowerCase(),
			role: el.getAttribute('role') || '',
			name: label.trim(),
			value: typeof el.value === 'string' ? el.value : '',
			id: el.id || '',
			classes: typeof el.className === 'string' ? el.className : ''
		});
	});
	return out;
}`

// scanScript walks every element under body whose text contains arg.query
// and reports the visible ones in document order. The matching nodes are
// parked on window.__webpilotScan so markScript can tag the winners.
const scanScript = `(arg) => {
	const store = [];
	window.__webpilotScan = store;
	const out = [];
	if (!document.body) return out;
	const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_ELEMENT, null);
	let node;
	while ((node = walker.nextNode())) {
		const text = node.textContent || '';
		if (!text.includes(arg.query)) continue;
		const tag = node.tagName.toLowerCase();
		const role = node.getAttribute('role') || '';
		if (arg.role && (role || tag) !== arg.role && tag !== arg.role) continue;
		const rect = node.getBoundingClientRect();
		const style = window.getComputedStyle(node);
		if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0' || rect.width <= 0 || rect.height <= 0) continue;
		const parent = node.parentElement;
		let parentTag = '';
		let context = '';
		if (parent) {
			parentTag = parent.tagName.toLowerCase();
			const cls = typeof parent.className === 'string' && parent.className.trim() ? '.' + parent.className.trim().split(/\s+/)[0] : '';
			const id = parent.id ? '#' + parent.id : '';
			context = 'in <' + parentTag + cls + id + '>';
		}
		const ownText = Array.from(node.childNodes)
			.filter(n => n.nodeType === Node.TEXT_NODE)
			.map(n => n.textContent.trim())
			.join(' ');
		out.push({
			order: store.length,
			tag: tag,
			parentTag: parentTag,
			role: role,
			text: text.substring(0, 100).trim(),
			ownText: ownText,
			textLength: text.length,
			context: context,
			id: node.id || '',
			classes: typeof node.className === 'string' ? node.className : ''
		});
		store.push(node);
	}
	return out;
}`

// markScript stamps FindMarker on the scanned nodes named by arg.marks and
// releases the scan.
const markScript = `(arg) => {
	const store = window.__webpilotScan || [];
	let tagged = 0;
	for (const m of arg.marks) {
		const el = store[m.order];
		if (el) {
			el.setAttribute('data-webpilot-find-id', String(m.id));
			tagged++;
		}
	}
	window.__webpilotScan = null;
	return tagged;
}`
