package webui

const defaultIndexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Prompt Builder</title>
  <style>
    body { font-family: "Segoe UI", sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e9eef7); color: #1f2937; }
    .wrap { max-width: 900px; margin: 0 auto; padding: 20px; }
    .panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; margin-bottom: 16px; }
    label { display: block; font-weight: 600; margin-top: 10px; }
    input, select, textarea { width: 100%; box-sizing: border-box; padding: 8px; border: 1px solid #cbd5e1; border-radius: 8px; font: inherit; }
    textarea { min-height: 70px; }
    .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 8px; }
    .row { display: flex; gap: 8px; margin-top: 12px; }
    button, a.button { padding: 10px 16px; border: 0; border-radius: 8px; background: #e11d48; color: #fff; cursor: pointer; text-decoration: none; }
    button.secondary { background: #64748b; }
    #prompt { white-space: pre-wrap; border: 1px solid #d1d5db; border-radius: 8px; padding: 12px; background: #f9fafb; min-height: 80px; }
    #warning { color: #b91c1c; margin-top: 8px; }
    #history li { cursor: pointer; margin: 4px 0; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="panel">
      <h2>Prompt Builder</h2>
      <div class="grid">
        <div><label for="template">Template</label><select id="template"></select></div>
        <div><label for="preset">AI type</label>
          <select id="preset">
            <option value="">(none)</option>
            <option value="chat">Chat / LLM</option>
            <option value="image">Images</option>
            <option value="code">Code</option>
            <option value="data">Data analysis</option>
          </select>
        </div>
        <div><label for="tone">Tone</label><input id="tone" placeholder="Neutral, Professional, Friendly..." /></div>
        <div><label for="language">Output language</label><input id="language" placeholder="English" /></div>
        <div><label for="length">Length</label>
          <select id="length">
            <option value="">(any)</option>
            <option value="short">Short</option>
            <option value="medium" selected>Medium</option>
            <option value="long">Long</option>
          </select>
        </div>
        <div><label for="audience">Audience</label><input id="audience" /></div>
      </div>
      <label for="role">Role</label><input id="role" placeholder="e.g. an experienced personal trainer" />
      <label for="goal">Goal</label><textarea id="goal" placeholder="e.g. a 4-week beginner workout plan, 3 days a week"></textarea>
      <label for="context">Context</label><textarea id="context"></textarea>
      <label for="inputs">Input data</label><textarea id="inputs"></textarea>
      <label for="constraints">Constraints (one per line)</label><textarea id="constraints"></textarea>
      <div class="grid">
        <div><label for="must_include">Must include (one per line)</label><textarea id="must_include"></textarea></div>
        <div><label for="must_avoid">Must avoid (one per line)</label><textarea id="must_avoid"></textarea></div>
      </div>
      <label for="output_format">Output format</label><input id="output_format" />
      <label for="examples">Examples</label><textarea id="examples"></textarea>
      <label for="checklist">Evaluation checklist</label><textarea id="checklist"></textarea>
      <label><input type="checkbox" id="format_rules" checked style="width:auto" /> Add response format rules</label>
      <div class="row">
        <button id="generate">Generate prompt</button>
        <button id="clear" class="secondary">Clear fields</button>
      </div>
      <div id="warning"></div>
    </div>
    <div class="panel">
      <h3>Prompt</h3>
      <div id="prompt"></div>
      <div class="row">
        <button id="copy" class="secondary">Copy</button>
        <a id="download" class="button" href="/api/download">Download .txt</a>
      </div>
    </div>
    <div class="panel">
      <h3>History</h3>
      <ol id="history"></ol>
    </div>
  </div>
  <script>
    const $ = (id) => document.getElementById(id);
    const fields = ['template','preset','role','goal','context','inputs','audience','tone','language','output_format','length','examples'];
    async function loadTemplates() {
      const resp = await fetch('/api/templates');
      const data = await resp.json();
      $('template').innerHTML = (data.templates || []).map(n => '<option>' + n + '</option>').join('');
      $('template').value = 'default';
    }
    async function loadHistory() {
      const resp = await fetch('/api/history');
      const data = await resp.json();
      const list = $('history');
      list.innerHTML = '';
      for (const e of data.entries || []) {
        const li = document.createElement('li');
        li.textContent = e.created_at + ' [' + e.template + '] ' + e.prompt.slice(0, 80);
        li.addEventListener('click', () => { $('prompt').textContent = e.prompt; $('download').href = '/api/download?id=' + e.id; });
        list.appendChild(li);
      }
    }
    async function generate() {
      const body = {};
      for (const f of fields) body[f] = $(f).value;
      body.evaluation_checklist = $('checklist').value;
      body.constraints_text = $('constraints').value;
      body.must_include_text = $('must_include').value;
      body.must_avoid_text = $('must_avoid').value;
      body.format_rules = $('format_rules').checked;
      const resp = await fetch('/api/build', { method:'POST', headers:{'Content-Type':'application/json'}, body: JSON.stringify(body) });
      const data = await resp.json();
      if (!resp.ok) {
        $('warning').textContent = data.field === 'goal' ? 'Please describe the goal first.' : (data.error || 'error');
        return;
      }
      $('warning').textContent = '';
      $('prompt').textContent = data.prompt;
      $('download').href = '/api/download?id=' + data.id;
      loadHistory();
    }
    async function clearAll() {
      for (const f of fields) if (f !== 'template' && f !== 'length') $(f).value = '';
      for (const f of ['checklist','constraints','must_include','must_avoid']) $(f).value = '';
      $('prompt').textContent = '';
      $('warning').textContent = '';
      await fetch('/api/clear', { method:'POST' });
      loadHistory();
    }
    $('generate').addEventListener('click', generate);
    $('clear').addEventListener('click', clearAll);
    $('copy').addEventListener('click', () => navigator.clipboard.writeText($('prompt').textContent));
    loadTemplates();
    loadHistory();
  </script>
</body>
</html>`
