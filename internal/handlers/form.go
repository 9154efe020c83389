package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Form serves the minimal export form driving the API. It posts the same
// JSON body a programmatic caller would.
func (h *ExportHandler) Form(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(formPage))
}

const formPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Order Ledger Export</title>
<style>
body { font-family: sans-serif; max-width: 560px; margin: 40px auto; }
label { display: block; margin-top: 12px; }
input, select { width: 100%; padding: 6px; box-sizing: border-box; }
button { margin-top: 18px; padding: 8px 24px; }
#msg { margin-top: 14px; color: #b00; }
</style>
</head>
<body>
<h1>Order Ledger Export</h1>
<form id="f">
  <label>Start date <input type="date" name="start_date" required></label>
  <label>End date <input type="date" name="end_date" required></label>
  <label>Status filter
    <select name="status">
      <option value="">All</option>
      <option value="completed">Completed</option>
      <option value="processing">Processing</option>
      <option value="on-hold">On hold</option>
    </select>
  </label>
  <label>Invoice prefix <input type="text" name="invoice_prefix" placeholder="INV/"></label>
  <label>Invoice sequence start <input type="number" name="invoice_seq_start" min="1"></label>
  <label>Format
    <select name="format">
      <option value="csv">CSV</option>
      <option value="xlsx">Excel workbook</option>
      <option value="pdf">PDF</option>
      <option value="zip">Zip bundle</option>
    </select>
  </label>
  <label><input type="checkbox" name="reconcile" style="width:auto"> Reconcile order totals</label>
  <button type="submit">Fetch &amp; Export</button>
</form>
<div id="msg"></div>
<script>
document.getElementById('f').addEventListener('submit', async function (e) {
  e.preventDefault();
  var fd = new FormData(this);
  var body = {
    start_date: fd.get('start_date'),
    end_date: fd.get('end_date'),
    status: fd.get('status'),
    invoice_prefix: fd.get('invoice_prefix'),
    invoice_seq_start: parseInt(fd.get('invoice_seq_start') || '0', 10),
    format: fd.get('format'),
    reconcile: fd.get('reconcile') === 'on'
  };
  var msg = document.getElementById('msg');
  msg.textContent = 'Fetching orders...';
  var resp = await fetch('/api/v1/exports', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body)
  });
  if (!resp.ok) {
    var err = await resp.json().catch(function () { return {error: resp.statusText}; });
    msg.textContent = err.error;
    return;
  }
  var blob = await resp.blob();
  var dispo = resp.headers.get('Content-Disposition') || '';
  var m = dispo.match(/filename="?([^"]+)"?/);
  var a = document.createElement('a');
  a.href = URL.createObjectURL(blob);
  a.download = m ? m[1] : 'orders_export';
  a.click();
  msg.textContent = '';
});
</script>
</body>
</html>
`
