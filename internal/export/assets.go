package export

// exportCSS styles the export document. Inlined so the file stays
// self-contained with no external asset fetches beyond the font link.
const exportCSS = `      :root {
        --bg: #f7fafc;
        --card: #ffffff;
        --deep-slate: #0f172a;
        --teal: #0f766e;
        --teal-light: #14b8a6;
        --purple: #7c3aed;
        --pink: #ec4899;
        --muted: #475569;
        --border: rgba(15, 23, 42, 0.1);
        --shadow: 0 15px 30px rgba(15, 23, 42, 0.12);
      }
      * {
        box-sizing: border-box;
      }
      html {
        scroll-behavior: smooth;
      }
      body {
        margin: 0;
        font-family: "Outfit", "Segoe UI", system-ui, -apple-system, sans-serif;
        background: linear-gradient(180deg, #f8fbff 0%, #f4f1fb 50%, #fdf2f8 100%);
        color: var(--deep-slate);
        min-height: 100vh;
      }
      .layout {
        display: flex;
      }
      aside.sidebar {
        width: 280px;
        background: linear-gradient(195deg, #0f172a, #0f766e 40%, #7c3aed 75%, #ec4899);
        color: white;
        min-height: 100vh;
        position: sticky;
        top: 0;
        padding: 2rem 1.5rem;
        box-shadow: 0 25px 55px rgba(15, 23, 42, 0.35);
      }
      .sidebar__logo {
        display: flex;
        flex-direction: column;
        gap: 0.35rem;
        margin-bottom: 2rem;
      }
      .sidebar__logo span:first-child {
        font-size: 1.1rem;
        text-transform: uppercase;
        letter-spacing: 0.35rem;
        opacity: 0.8;
      }
      .sidebar__logo h1 {
        margin: 0;
        font-size: 2rem;
        font-weight: 700;
        letter-spacing: 0.05em;
      }
      .sidebar__label {
        font-size: 0.8rem;
        letter-spacing: 0.2em;
        text-transform: uppercase;
        opacity: 0.8;
        margin-bottom: 1rem;
      }
      .nav-group {
        margin-bottom: 1.5rem;
      }
      .nav-year {
        font-weight: 600;
        margin-bottom: 0.25rem;
      }
      .nav-months {
        display: flex;
        flex-direction: column;
        gap: 0.35rem;
        padding-left: 0.5rem;
      }
      .month-link {
        color: rgba(255,255,255,0.9);
        text-decoration: none;
        padding: 0.4rem 0.75rem;
        border-radius: 999px;
        display: flex;
        justify-content: space-between;
        font-size: 0.9rem;
        transition: background 0.2s, transform 0.2s;
      }
      .month-link span {
        font-size: 0.75rem;
        opacity: 0.85;
      }
      .month-link:hover {
        background: rgba(255,255,255,0.12);
        transform: translateX(4px);
      }
      .month-link.active {
        background: rgba(255,255,255,0.2);
        color: white;
      }
      .sidebar__empty {
        background: rgba(255,255,255,0.12);
        border-radius: 1rem;
        padding: 1rem;
        font-size: 0.9rem;
        line-height: 1.5;
      }
      main.content {
        flex: 1;
        padding: 2.5rem 3rem 3rem;
        max-width: 960px;
        margin: 0 auto;
      }
      .hero {
        background: linear-gradient(120deg, rgba(13,148,136,0.15), rgba(124,58,237,0.15));
        border-radius: 1.75rem;
        padding: 2.5rem;
        border: 1px solid rgba(14,116,144,0.2);
        box-shadow: var(--shadow);
        margin-bottom: 2rem;
      }
      .hero h2 {
        margin: 0;
        font-size: 2.4rem;
        background: linear-gradient(120deg, var(--teal), var(--purple), var(--pink));
        -webkit-background-clip: text;
        -webkit-text-fill-color: transparent;
      }
      .hero p {
        margin-top: 0.5rem;
        color: var(--muted);
        font-size: 1rem;
      }
      .summary-grid {
        display: grid;
        grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
        gap: 1.25rem;
        margin-bottom: 2rem;
      }
      .summary-card {
        border-radius: 1.5rem;
        padding: 1.4rem;
        background: var(--card);
        border: 1px solid rgba(15, 23, 42, 0.06);
        box-shadow: 0 20px 35px rgba(15, 23, 42, 0.08);
      }
      .summary-card.gradient {
        background: linear-gradient(120deg, rgba(20,184,166,0.95), rgba(124,58,237,0.95));
        color: white;
        border: none;
      }
      .summary-card h3 {
        margin: 0;
        font-size: 0.95rem;
        text-transform: uppercase;
        letter-spacing: 0.08em;
        opacity: 0.8;
      }
      .summary-card strong {
        display: block;
        font-size: 2rem;
        margin-top: 0.35rem;
        font-weight: 700;
      }
      .summary-meta {
        margin-top: 0.8rem;
        font-size: 0.9rem;
        line-height: 1.5;
      }
      .summary-tags {
        display: flex;
        flex-wrap: wrap;
        gap: 0.35rem;
        margin-top: 0.8rem;
      }
      .summary-tag {
        padding: 0.2rem 0.65rem;
        border-radius: 999px;
        background: rgba(15, 118, 110, 0.12);
        color: var(--teal);
        font-size: 0.85rem;
      }
      .filters {
        background: var(--card);
        border-radius: 1.25rem;
        padding: 1.2rem;
        border: 1px solid rgba(15, 23, 42, 0.08);
        box-shadow: 0 12px 30px rgba(15, 23, 42, 0.08);
        display: flex;
        flex-wrap: wrap;
        gap: 0.8rem;
        margin-bottom: 2rem;
        align-items: center;
      }
      .filters label {
        font-size: 0.85rem;
        font-weight: 500;
        color: var(--muted);
        display: block;
        margin-bottom: 0.35rem;
      }
      .input-wrapper {
        flex: 1;
        min-width: 200px;
      }
      .filters input,
      .filters select {
        width: 100%;
        padding: 0.75rem 1rem;
        border-radius: 999px;
        border: 1px solid var(--border);
        font-size: 0.95rem;
        background: rgba(248,250,252,0.8);
      }
      .filters button {
        border: none;
        border-radius: 999px;
        padding: 0.85rem 1.25rem;
        background: linear-gradient(120deg, var(--teal), var(--purple));
        color: white;
        font-weight: 600;
        cursor: pointer;
        box-shadow: 0 12px 25px rgba(14,116,144,0.35);
      }
      .filters__results {
        font-size: 0.85rem;
        color: var(--muted);
        margin-left: auto;
      }
      .timeline {
        display: flex;
        flex-direction: column;
        gap: 2rem;
      }
      .year-group-label {
        font-size: 1.1rem;
        font-weight: 600;
        color: var(--muted);
        letter-spacing: 0.25em;
        text-transform: uppercase;
        margin-bottom: 1rem;
      }
      .month-group {
        background: rgba(255, 255, 255, 0.92);
        border-radius: 1.25rem;
        border: 1px solid rgba(15, 23, 42, 0.05);
        box-shadow: 0 25px 45px rgba(15, 23, 42, 0.08);
        padding: 1.5rem;
      }
      .month-header {
        display: flex;
        justify-content: space-between;
        align-items: center;
        margin-bottom: 1rem;
        border-bottom: 1px solid rgba(15, 23, 42, 0.08);
        padding-bottom: 0.8rem;
      }
      .month-header h3 {
        margin: 0;
        font-size: 1.5rem;
      }
      .month-header span {
        font-size: 0.95rem;
        color: var(--muted);
      }
      .entry-card {
        border-radius: 1.1rem;
        border: 1px solid rgba(15, 23, 42, 0.08);
        padding: 1.25rem;
        margin-bottom: 1rem;
        background: #ffffff;
        box-shadow: 0 12px 24px rgba(15, 23, 42, 0.06);
      }
      .entry-card:last-child {
        margin-bottom: 0;
      }
      .entry-card__header {
        display: flex;
        justify-content: space-between;
        gap: 1rem;
        align-items: center;
        flex-wrap: wrap;
      }
      .entry-date {
        font-size: 0.95rem;
        color: var(--muted);
        margin: 0;
      }
      .entry-source {
        font-size: 0.85rem;
        color: rgba(15, 23, 42, 0.6);
      }
      .entry-type-pill {
        padding: 0.35rem 0.9rem;
        border-radius: 999px;
        font-size: 0.85rem;
        font-weight: 600;
        border: 1px solid rgba(15, 23, 42, 0.1);
        background: rgba(20, 184, 166, 0.1);
        color: var(--teal);
        text-transform: capitalize;
      }
      .entry-type-pill.url {
        background: rgba(124, 58, 237, 0.1);
        color: var(--purple);
      }
      .entry-type-pill.image {
        background: rgba(236, 72, 153, 0.1);
        color: var(--pink);
      }
      .entry-title {
        font-size: 1.25rem;
        margin: 0.85rem 0 0.35rem;
      }
      .entry-title a {
        color: var(--purple);
        text-decoration: none;
      }
      .entry-content {
        white-space: pre-line;
        line-height: 1.6;
        color: rgba(15, 23, 42, 0.9);
      }
      .entry-meta {
        display: grid;
        grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
        gap: 0.6rem;
        margin-top: 1rem;
        font-size: 0.9rem;
        color: var(--muted);
      }
      .entry-tags {
        display: flex;
        flex-wrap: wrap;
        gap: 0.4rem;
        margin-top: 0.9rem;
      }
      .entry-tag {
        padding: 0.25rem 0.65rem;
        border-radius: 999px;
        background: rgba(14,116,144,0.12);
        color: var(--teal);
        font-size: 0.85rem;
      }
      .entry-list {
        margin-top: 1rem;
        padding-left: 1.2rem;
        color: rgba(15, 23, 42, 0.95);
      }
      .entry-list li {
        margin-bottom: 0.4rem;
      }
      .entry-section-title {
        font-size: 0.95rem;
        font-weight: 600;
        margin-top: 1rem;
        color: var(--deep-slate);
      }
      .entry-image {
        margin-top: 1rem;
        border-radius: 0.75rem;
        overflow: hidden;
        border: 1px solid rgba(15, 23, 42, 0.1);
        box-shadow: 0 8px 16px rgba(15, 23, 42, 0.08);
      }
      .entry-image img {
        width: 100%;
        height: auto;
        display: block;
        max-width: 100%;
        object-fit: contain;
      }
      .nav-toggle {
        display: none;
        position: fixed;
        left: 1rem;
        bottom: 1rem;
        padding: 0.75rem 1.1rem;
        border-radius: 999px;
        border: none;
        background: linear-gradient(120deg, var(--teal), var(--purple));
        color: white;
        font-weight: 600;
        box-shadow: 0 20px 35px rgba(15, 23, 42, 0.25);
        z-index: 50;
      }
      .nav-overlay {
        display: none;
        position: fixed;
        inset: 0;
        background: rgba(15, 23, 42, 0.4);
        z-index: 30;
      }
      @media (max-width: 1100px) {
        .layout {
          flex-direction: column;
        }
        aside.sidebar {
          position: relative;
          width: 100%;
          border-radius: 0 0 2rem 2rem;
          min-height: auto;
        }
        main.content {
          padding: 1.75rem 1.25rem 3rem;
        }
      }
      @media (max-width: 768px) {
        aside.sidebar {
          position: fixed;
          left: -320px;
          top: 0;
          height: 100vh;
          width: 280px;
          transition: transform 0.3s ease;
          border-radius: 0;
          z-index: 40;
        }
        body.sidebar-open aside.sidebar {
          transform: translateX(320px);
        }
        .nav-toggle {
          display: block;
        }
        body.sidebar-open .nav-overlay {
          display: block;
        }
      }
      @media (max-width: 640px) {
        .filters {
          flex-direction: column;
        }
        .filters__results {
          width: 100%;
          text-align: left;
          margin-left: 0;
        }
      }`

// exportScript is the fixed client-side behavior: attribute-based
// filtering, active-month highlighting via IntersectionObserver, and
// the mobile sidebar toggle. It reads only data-* attributes, so it
// never changes per export.
const exportScript = `      (function() {
        const body = document.body;
        const navToggle = document.getElementById("navToggle");
        const navOverlay = document.getElementById("navOverlay");
        const monthLinks = Array.from(document.querySelectorAll(".month-link"));
        const entryCards = Array.from(document.querySelectorAll(".entry-card"));
        const monthSections = Array.from(document.querySelectorAll(".month-group"));
        const searchInput = document.getElementById("searchInput");
        const typeFilter = document.getElementById("typeFilter");
        const tagFilter = document.getElementById("tagFilter");
        const resetFilters = document.getElementById("resetFilters");
        const resultsCount = document.getElementById("resultsCount");

        function closeSidebar() {
          body.classList.remove("sidebar-open");
        }

        function toggleSidebar() {
          body.classList.toggle("sidebar-open");
        }

        navToggle?.addEventListener("click", toggleSidebar);
        navOverlay?.addEventListener("click", closeSidebar);
        monthLinks.forEach((link) => link.addEventListener("click", closeSidebar));

        function applyFilters() {
          const query = (searchInput?.value || "").toLowerCase();
          const type = typeFilter?.value || "";
          const tagValue = (tagFilter?.value || "").toLowerCase();
          let visibleEntries = 0;

          entryCards.forEach((card) => {
            const matchesQuery = !query || card.dataset.content?.includes(query);
            const matchesType = !type || card.dataset.type === type;
            const matchesTag =
              !tagValue || (card.dataset.tags || "").includes(tagValue);
            const isVisible = matchesQuery && matchesType && matchesTag;
            card.style.display = isVisible ? "block" : "none";
            if (isVisible) visibleEntries += 1;
          });

          monthSections.forEach((section) => {
            const cards = Array.from(section.querySelectorAll(".entry-card"));
            if (!cards.length) {
              section.style.display = "block";
              return;
            }
            const visibleChild = cards.some(
              (card) => card.style.display !== "none"
            );
            section.style.display = visibleChild ? "block" : "none";
          });

          if (resultsCount) {
            resultsCount.textContent =
              visibleEntries + " entr" + (visibleEntries === 1 ? "y" : "ies") + " shown";
          }
        }

        searchInput?.addEventListener("input", applyFilters);
        typeFilter?.addEventListener("change", applyFilters);
        tagFilter?.addEventListener("change", applyFilters);
        resetFilters?.addEventListener("click", () => {
          if (searchInput) searchInput.value = "";
          if (typeFilter) typeFilter.value = "";
          if (tagFilter) tagFilter.value = "";
          applyFilters();
        });

        if ("IntersectionObserver" in window) {
          const observer = new IntersectionObserver(
            (entries) => {
              entries.forEach((entry) => {
                if (entry.isIntersecting) {
                  const id = entry.target.getAttribute("id");
                  monthLinks.forEach((link) => {
                    if (link.dataset.target === id) {
                      link.classList.add("active");
                    } else {
                      link.classList.remove("active");
                    }
                  });
                }
              });
            },
            { rootMargin: "-40% 0px -45% 0px", threshold: 0 }
          );
          monthSections.forEach((section) => observer.observe(section));
        }
      })();`
